package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"conprint/actor"
	"conprint/directory"
)

// Log is the package logger. Hosts may retune its level or swap its output,
// typically from configuration.
var Log = logrus.New()

// drainCheck is the system message Stop pushes through the mailbox so that
// at least one empty-queue check runs after every message enqueued before
// the drain began. The mailbox is FIFO, so by the time the nudge is handled
// everything queued earlier has been written.
type drainCheck struct{}

// ServerStats holds counters for a running print service.
type ServerStats struct {
	// LinesWritten is the number of messages written to the sink in full
	LinesWritten uint64

	// WriteFailures is the number of messages lost to sink write errors
	WriteFailures uint64

	// QueueDepth is a snapshot of pending messages
	QueueDepth int
}

// Server owns the output sink and serializes all writes to it. Any number
// of producers send to it through Streams; the Server's single-threaded
// handler guarantees that no two messages are written concurrently, so the
// sink needs no locking.
type Server struct {
	sys  *actor.System
	ref  actor.Actor
	dir  *directory.Directory
	name string
	sink io.Writer

	mailboxSize int

	stopped  atomic.Bool
	draining atomic.Bool

	// One-shot drain confirmation, delivered by the handler once the
	// mailbox is empty while a drain is pending.
	drainDone chan bool

	linesWritten  atomic.Uint64
	writeFailures atomic.Uint64
}

// Option configures a Server before it starts.
type Option func(*Server)

// WithSink binds the service to w instead of standard output.
func WithSink(w io.Writer) Option {
	return func(s *Server) { s.sink = w }
}

// WithName registers the service under name instead of a generated one.
func WithName(name string) Option {
	return func(s *Server) { s.name = name }
}

// WithDirectory registers the service into d instead of directory.Default.
func WithDirectory(d *directory.Directory) Option {
	return func(s *Server) { s.dir = d }
}

// WithMailboxSize overrides the service mailbox capacity.
func WithMailboxSize(n int) Option {
	return func(s *Server) { s.mailboxSize = n }
}

// Start constructs the print service inside the given System, binds it to
// its sink and registers it so Streams can resolve it. It fails with
// directory.ErrDuplicateService when another service is already registered;
// in that case the first instance is unaffected.
func Start(sys *actor.System, opts ...Option) (*Server, error) {
	s := &Server{
		sys:       sys,
		dir:       directory.Default,
		sink:      os.Stdout,
		drainDone: make(chan bool, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.name == "" {
		s.name = "console-print-" + uuid.NewString()
	}

	aopts := actor.DefaultOptions()
	aopts.Name = s.name
	if s.mailboxSize > 0 {
		aopts.MailboxSize = s.mailboxSize
	}

	ref, err := sys.Spawn(s, aopts)
	if err != nil {
		return nil, fmt.Errorf("console: spawn print service: %w", err)
	}
	s.ref = ref

	if err := s.dir.Register(s.name, directory.Handle{Actor: ref, System: sys}); err != nil {
		// Roll back: never leave an unreachable writer running
		if serr := ref.Stop(); serr != nil {
			Log.WithError(serr).WithField("service", s.name).Warn("rollback stop failed")
		}
		return nil, err
	}

	Log.WithField("service", s.name).Debug("print service started")
	return s, nil
}

// Name returns the name the service is registered under.
func (s *Server) Name() string {
	return s.name
}

// Stats returns the service counters.
func (s *Server) Stats() ServerStats {
	return ServerStats{
		LinesWritten:  s.linesWritten.Load(),
		WriteFailures: s.writeFailures.Load(),
		QueueDepth:    s.ref.QueueDepth(),
	}
}

// HandleMessage writes one buffered text message to the sink, terminated by
// exactly one newline, in a single Write call. It runs on the service's own
// goroutine with mailbox-exclusive access.
func (s *Server) HandleMessage(_ context.Context, msg *actor.Message) error {
	switch payload := msg.Payload.(type) {
	case string:
		line := make([]byte, 0, len(payload)+1)
		line = append(line, payload...)
		line = append(line, '\n')
		if _, err := s.sink.Write(line); err != nil {
			// The offending message is lost; the service keeps serving.
			s.writeFailures.Add(1)
			Log.WithError(err).WithField("sender", msg.Source).Error("sink write failed")
		} else {
			s.linesWritten.Add(1)
		}

	case drainCheck:
		// No output; only the drain check below matters.

	default:
		Log.WithField("payload", fmt.Sprintf("%T", msg.Payload)).Warn("dropping unexpected payload")
	}

	if s.draining.Load() && s.ref.QueueDepth() == 0 {
		select {
		case s.drainDone <- true:
		default:
		}
	}
	return nil
}

// Stop drains and shuts down the service. If messages are still queued it
// blocks the calling goroutine until every one of them has been written,
// then clears the directory entry and stops the underlying actor. The drain
// has no timeout: producers are expected to be quiesced before shutdown.
// Sends attempted after Stop begins fail with ErrServiceUnavailable.
// Stop is idempotent and is the only blocking operation in the package.
func (s *Server) Stop() error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}

	// Refuse new messages; everything already queued is still written.
	s.ref.Quiesce()

	if s.ref.QueueDepth() > 0 {
		s.draining.Store(true)
		nudge := &actor.Message{Type: actor.MessageSystem, Payload: drainCheck{}}
		// A full mailbox cannot take the nudge, but then a queued message
		// runs the same check once the queue finally empties.
		if err := s.ref.Send(nudge); err != nil {
			Log.WithError(err).WithField("service", s.name).Debug("drain nudge rejected")
		}
		<-s.drainDone
	}

	s.dir.Unregister(s.name)
	Log.WithField("service", s.name).Debug("print service stopped")
	return s.ref.Stop()
}
