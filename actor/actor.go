package actor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Errors returned by Send.
var (
	// ErrMailboxFull means the message was rejected because the mailbox
	// is at capacity. Send never blocks.
	ErrMailboxFull = errors.New("mailbox full")

	// ErrNotAccepting means the actor is quiesced or stopped and refuses
	// new messages.
	ErrNotAccepting = errors.New("actor not accepting messages")
)

// Actor represents a computational unit that processes messages sequentially.
// Each actor runs in its own goroutine and communicates through channels.
// All methods are safe for concurrent use.
type Actor interface {
	// ID returns the unique identifier of this actor.
	ID() ID

	// Send enqueues a message into this actor's mailbox. It never blocks;
	// it returns ErrMailboxFull when the mailbox is at capacity and
	// ErrNotAccepting when the actor is quiesced or stopped. System-typed
	// messages are still accepted while the actor is quiesced.
	Send(msg *Message) error

	// QueueDepth returns a snapshot of the number of pending messages.
	QueueDepth() int

	// Quiesce stops the actor from accepting new non-system messages
	// while it keeps processing the ones already queued.
	Quiesce()

	// Stop gracefully shuts down the actor. Every message still in the
	// mailbox is handled before Stop returns.
	Stop() error

	// Stats returns current runtime statistics for this actor.
	Stats() Stats
}

// actor implements the Actor interface.
type actor struct {
	id      ID
	name    string
	handler Handler

	// Channel for receiving messages
	mailbox chan *Message

	// Context for controlling the actor lifecycle
	ctx    context.Context
	cancel context.CancelFunc

	// Wait group for graceful shutdown
	wg sync.WaitGroup

	// Atomic counters for state and statistics
	state             int32 // State
	accepting         atomic.Bool
	messagesProcessed uint64
	createdAt         time.Time
	lastMessageAt     int64 // Unix timestamp
}

// newActor creates a new actor instance. The System starts it.
func newActor(id ID, handler Handler, opts Options) *actor {
	ctx, cancel := context.WithCancel(context.Background())

	a := &actor{
		id:        id,
		name:      opts.Name,
		handler:   handler,
		mailbox:   make(chan *Message, opts.MailboxSize),
		ctx:       ctx,
		cancel:    cancel,
		createdAt: time.Now(),
	}

	a.accepting.Store(true)
	atomic.StoreInt32(&a.state, int32(StateIdle))

	return a
}

// ID returns the unique identifier of this actor.
func (a *actor) ID() ID {
	return a.id
}

// start begins the actor's message processing loop.
func (a *actor) start() {
	a.wg.Add(1)
	go a.messageLoop()
}

// Send enqueues a message into this actor's mailbox.
func (a *actor) Send(msg *Message) error {
	currentState := State(atomic.LoadInt32(&a.state))
	if currentState == StateStopped || currentState == StateStopping {
		return fmt.Errorf("actor %d: %w", a.id, ErrNotAccepting)
	}
	if !a.accepting.Load() && msg.Type != MessageSystem {
		return fmt.Errorf("actor %d: %w", a.id, ErrNotAccepting)
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	msg.Target = a.id

	select {
	case a.mailbox <- msg:
		return nil
	default:
		return fmt.Errorf("actor %d: %w", a.id, ErrMailboxFull)
	}
}

// QueueDepth returns the number of messages waiting in the mailbox.
func (a *actor) QueueDepth() int {
	return len(a.mailbox)
}

// Quiesce refuses new non-system messages from now on. Queued messages
// are still processed.
func (a *actor) Quiesce() {
	a.accepting.Store(false)
}

// Stop gracefully shuts down the actor.
func (a *actor) Stop() error {
	// Set state to stopping; the loop flips between idle and running, so
	// a single compare-and-swap could miss both
	for {
		current := State(atomic.LoadInt32(&a.state))
		if current == StateStopping || current == StateStopped {
			return fmt.Errorf("actor %d cannot be stopped from state %s", a.id, current)
		}
		if atomic.CompareAndSwapInt32(&a.state, int32(current), int32(StateStopping)) {
			break
		}
	}

	a.accepting.Store(false)

	// Cancel context to signal shutdown
	a.cancel()

	// Wait for the message loop to drain the mailbox and finish
	a.wg.Wait()

	// Set final state
	atomic.StoreInt32(&a.state, int32(StateStopped))

	return nil
}

// Stats returns current runtime statistics for this actor.
func (a *actor) Stats() Stats {
	lastMsg := atomic.LoadInt64(&a.lastMessageAt)
	var lastMessageAt time.Time
	if lastMsg > 0 {
		lastMessageAt = time.Unix(lastMsg, 0)
	}

	return Stats{
		ID:                a.id,
		Name:              a.name,
		State:             State(atomic.LoadInt32(&a.state)),
		MessagesProcessed: atomic.LoadUint64(&a.messagesProcessed),
		QueueDepth:        len(a.mailbox),
		CreatedAt:         a.createdAt,
		LastMessageAt:     lastMessageAt,
	}
}

// messageLoop is the main processing loop for the actor.
func (a *actor) messageLoop() {
	defer a.wg.Done()

	for {
		select {
		case msg := <-a.mailbox:
			if msg == nil {
				continue
			}
			a.processMessage(msg)

		case <-a.ctx.Done():
			// Handle remaining messages before shutting down
			a.drainMailbox()
			return
		}
	}
}

// processMessage handles a single message.
func (a *actor) processMessage(msg *Message) {
	// Mark running; CAS so a concurrent Stop's Stopping state survives
	atomic.CompareAndSwapInt32(&a.state, int32(StateIdle), int32(StateRunning))
	defer atomic.CompareAndSwapInt32(&a.state, int32(StateRunning), int32(StateIdle))

	// Update statistics
	atomic.AddUint64(&a.messagesProcessed, 1)
	atomic.StoreInt64(&a.lastMessageAt, time.Now().Unix())

	if err := a.handler.HandleMessage(a.ctx, msg); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"actor": a.id,
			"name":  a.name,
		}).Warn("message handler failed")
	}
}

// drainMailbox handles every message still queued at shutdown. Messages go
// through the handler rather than being discarded, so buffered output sent
// just before the stop is not lost.
func (a *actor) drainMailbox() {
	for {
		select {
		case msg := <-a.mailbox:
			if msg == nil {
				return
			}
			a.processMessage(msg)
		default:
			return
		}
	}
}
