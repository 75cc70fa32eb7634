// Package actor implements the execution substrate for conprint.
//
// Each actor is a unit of single-threaded message handling: a goroutine
// draining a buffered channel mailbox. A System multiplexes many actors
// and hands out addressable identities.
package actor
