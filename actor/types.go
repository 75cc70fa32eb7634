package actor

import (
	"context"
	"time"
)

// ID represents a unique identifier for an actor or a lightweight sender.
type ID uint32

// MessageType defines the type of message being sent.
type MessageType uint8

const (
	// MessageText for ordinary payloads
	MessageText MessageType = iota

	// MessageSystem for control messages; system messages are still
	// accepted by a quiesced actor
	MessageSystem
)

// String returns the string representation of MessageType.
func (t MessageType) String() string {
	switch t {
	case MessageText:
		return "text"
	case MessageSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Message represents communication data between actors.
type Message struct {
	// Type indicates the message category
	Type MessageType

	// Source is the ID of the sender
	Source ID

	// Target is the ID of the receiving actor; filled in by Send
	Target ID

	// Payload contains the actual message content
	Payload any

	// Timestamp when the message was created
	Timestamp time.Time
}

// State represents the current state of an actor.
type State uint8

const (
	// StateIdle means the actor is waiting for messages
	StateIdle State = iota

	// StateRunning means the actor is processing a message
	StateRunning

	// StateStopping means the actor is shutting down
	StateStopping

	// StateStopped means the actor has been stopped
	StateStopped
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Handler processes incoming messages for an actor.
//
// HandleMessage is invoked from the actor's own goroutine, one message at
// a time. The context is the actor's lifecycle context; during the final
// shutdown drain it is already cancelled.
type Handler interface {
	HandleMessage(ctx context.Context, msg *Message) error
}

// Options contains configuration options for creating an actor.
type Options struct {
	// MailboxSize sets the size of the actor's message queue
	MailboxSize int

	// Name is a human-readable name for the actor
	Name string
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		MailboxSize: 1000,
		Name:        "",
	}
}

// Stats contains runtime statistics for an actor.
type Stats struct {
	// ID of the actor
	ID ID

	// Name of the actor
	Name string

	// Current state
	State State

	// Total messages processed
	MessagesProcessed uint64

	// Messages currently in the mailbox
	QueueDepth int

	// Time when the actor was created
	CreatedAt time.Time

	// Last message processing time
	LastMessageAt time.Time
}
