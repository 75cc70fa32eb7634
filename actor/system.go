package actor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// System hosts actors: it allocates their identities, starts their message
// loops and tracks them for shutdown.
type System struct {
	mu     sync.RWMutex
	actors map[ID]*actor
	nextID uint32

	// System shutdown context
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSystem creates a new actor System.
func NewSystem() *System {
	ctx, cancel := context.WithCancel(context.Background())

	return &System{
		actors: make(map[ID]*actor),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AllocID hands out a fresh identity. Spawned actors get one implicitly;
// lightweight senders that only need an address on outgoing messages can
// allocate one explicitly.
func (s *System) AllocID() ID {
	return ID(atomic.AddUint32(&s.nextID, 1))
}

// Spawn creates, registers and starts a new actor driven by handler.
func (s *System) Spawn(handler Handler, opts Options) (Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check if the system is shutting down
	select {
	case <-s.ctx.Done():
		return nil, fmt.Errorf("actor system is shutting down")
	default:
	}

	// Apply default options if needed
	if opts.MailboxSize <= 0 {
		opts.MailboxSize = DefaultOptions().MailboxSize
	}

	a := newActor(s.AllocID(), handler, opts)
	s.actors[a.id] = a
	a.start()

	return a, nil
}

// Lookup finds an actor by its ID.
func (s *System) Lookup(id ID) (Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.actors[id]
	return a, ok
}

// Stats returns statistics for all actors in the system.
func (s *System) Stats() []Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make([]Stats, 0, len(s.actors))
	for _, a := range s.actors {
		stats = append(stats, a.Stats())
	}
	return stats
}

// Shutdown gracefully stops all actors in the system. It returns the
// context's error if the actors do not finish in time.
func (s *System) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.cancel()
	actors := make([]*actor, 0, len(s.actors))
	for _, a := range s.actors {
		actors = append(actors, a)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, a := range actors {
			if err := a.Stop(); err != nil {
				// Already stopped by its owner; nothing left to do
				log.WithError(err).WithField("actor", a.id).Debug("shutdown skip")
			}
		}
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
