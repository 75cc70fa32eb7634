// Package directory provides error definitions for service resolution
package directory

import "errors"

// Resolution errors
var (
	// ErrDuplicateService means a second service tried to register while
	// another one is still live. The first registration is unaffected.
	ErrDuplicateService = errors.New("service name already registered")

	// ErrServiceUnavailable means no live service is currently registered,
	// or a send was attempted after the service shut down.
	ErrServiceUnavailable = errors.New("no service registered")
)
