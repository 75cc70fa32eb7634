package directory

import (
	"fmt"
	"sync"

	"conprint/actor"
)

// Handle identifies a live service: the actor that receives its messages,
// the System hosting it, and the name it is registered under. A Handle is
// invalidated when the service unregisters.
type Handle struct {
	Actor  actor.Actor
	System *actor.System
	Name   string
}

// Directory is a process-wide, lazily populated binding from a well-known
// name to the live service handle. It exists because addressable actors
// cannot be constructed before their System is, so a registry filled at
// service start stands in for a package-level constant.
//
// At most one binding is live at a time: a second concurrent writer would
// reintroduce the interleaving the service exists to prevent.
type Directory struct {
	mu     sync.RWMutex
	bound  bool
	handle Handle
}

// Default is the process-wide directory used when none is injected.
var Default = New()

// New creates an empty Directory.
func New() *Directory {
	return &Directory{}
}

// Register binds name to the given handle. It fails with
// ErrDuplicateService while another binding is live.
func (d *Directory) Register(name string, h Handle) error {
	if name == "" {
		return fmt.Errorf("directory: empty service name")
	}
	if h.Actor == nil || h.System == nil {
		return fmt.Errorf("directory: incomplete handle for %q", name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.bound {
		return fmt.Errorf("directory: %q: %w", name, ErrDuplicateService)
	}

	h.Name = name
	d.handle = h
	d.bound = true
	return nil
}

// Resolve returns the currently bound handle. It fails with
// ErrServiceUnavailable when nothing is bound; it is safe to call before
// any service has started and from any goroutine.
func (d *Directory) Resolve() (Handle, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.bound {
		return Handle{}, fmt.Errorf("directory: %w", ErrServiceUnavailable)
	}
	return d.handle, nil
}

// Lookup reports the handle registered under name, if any.
func (d *Directory) Lookup(name string) (Handle, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.bound && d.handle.Name == name {
		return d.handle, true
	}
	return Handle{}, false
}

// Unregister clears the binding held under name. It is idempotent and a
// no-op when a different name is bound.
func (d *Directory) Unregister(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.bound && d.handle.Name == name {
		d.handle = Handle{}
		d.bound = false
	}
}
