package console

import (
	"errors"
	"fmt"
	"strings"

	"conprint/actor"
	"conprint/directory"
)

// Stream accumulates formatted text for one producer and ships it to the
// print service one message per flush. Writes are purely local and never
// block; buffering one logical line per message keeps partial lines away
// from the sink and avoids a mailbox message per character.
//
// A Stream belongs to a single producer and is not safe for concurrent use.
type Stream struct {
	buf strings.Builder
	h   directory.Handle
	id  actor.ID
}

// StreamOption configures stream construction.
type StreamOption func(*streamConfig)

type streamConfig struct {
	dir *directory.Directory
}

// FromDirectory resolves the print service from d instead of
// directory.Default.
func FromDirectory(d *directory.Directory) StreamOption {
	return func(c *streamConfig) { c.dir = d }
}

// New creates an empty Stream bound to the currently registered print
// service. The sender identity is allocated from the same System the
// service runs in, so cross-context stalls are avoided. It fails with
// directory.ErrServiceUnavailable when no service is registered.
func New(opts ...StreamOption) (*Stream, error) {
	cfg := streamConfig{dir: directory.Default}
	for _, opt := range opts {
		opt(&cfg)
	}

	h, err := cfg.dir.Resolve()
	if err != nil {
		return nil, err
	}

	return &Stream{
		h:  h,
		id: h.System.AllocID(),
	}, nil
}

// Write appends p to the local buffer. It never fails and never blocks;
// nothing reaches the sink until a flush trigger fires.
func (st *Stream) Write(p []byte) (int, error) {
	return st.buf.Write(p)
}

// WriteString appends s to the local buffer and returns the stream for
// chaining.
func (st *Stream) WriteString(s string) *Stream {
	st.buf.WriteString(s)
	return st
}

// Printf appends formatted text to the local buffer and returns the stream
// for chaining.
func (st *Stream) Printf(format string, args ...any) *Stream {
	fmt.Fprintf(&st.buf, format, args...)
	return st
}

// Len returns the number of buffered bytes.
func (st *Stream) Len() int {
	return st.buf.Len()
}

// Flush sends the buffered content as one message to the print service and
// resets the buffer. An empty buffer is a no-op, so no spurious empty lines
// reach the sink. On a send failure the buffer is kept and the error is
// returned; a flush is never silently dropped.
func (st *Stream) Flush() error {
	if st.buf.Len() == 0 {
		return nil
	}
	if err := st.send(st.buf.String()); err != nil {
		return err
	}
	st.buf.Reset()
	return nil
}

// Println appends its arguments and flushes: the end-of-line trigger. The
// service terminates every message with the single line terminator itself,
// so Println adds none of its own and reduces to the same contract as an
// explicit Flush.
func (st *Stream) Println(args ...any) error {
	fmt.Fprint(&st.buf, args...)
	return st.Flush()
}

// Close flushes whatever is still buffered so no text is dropped when a
// producer lets its stream go out of scope without flushing. It implements
// io.Closer for defer-based release; the stream must not be used after.
func (st *Stream) Close() error {
	if st.buf.Len() == 0 {
		return nil
	}
	return st.send(st.buf.String())
}

// send ships one message to the resolved service, mapping a refused send
// onto ErrServiceUnavailable: the service is gone or draining.
func (st *Stream) send(text string) error {
	msg := &actor.Message{
		Type:    actor.MessageText,
		Source:  st.id,
		Payload: text,
	}
	err := st.h.Actor.Send(msg)
	if err == nil {
		return nil
	}
	if errors.Is(err, actor.ErrNotAccepting) {
		return fmt.Errorf("console: %w", directory.ErrServiceUnavailable)
	}
	return fmt.Errorf("console: send to print service: %w", err)
}
