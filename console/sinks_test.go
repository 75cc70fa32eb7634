package console

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"time"
)

var errSinkClosed = errors.New("sink rejected write")

// recordSink captures everything the service writes.
type recordSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *recordSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *recordSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// Lines splits the captured output into newline-terminated units.
func (s *recordSink) Lines() []string {
	raw := s.String()
	if raw == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
}

// slowSink delays every write, keeping messages queued in the mailbox.
type slowSink struct {
	delay time.Duration
	inner *recordSink
}

func (s *slowSink) Write(p []byte) (int, error) {
	time.Sleep(s.delay)
	return s.inner.Write(p)
}

// failSink rejects the first n writes and accepts the rest.
type failSink struct {
	remaining int
	inner     *recordSink
}

func (s *failSink) Write(p []byte) (int, error) {
	if s.remaining > 0 {
		s.remaining--
		return 0, errSinkClosed
	}
	return s.inner.Write(p)
}

// gateSink blocks every write until the gate is closed.
type gateSink struct {
	gate    chan struct{}
	entered chan struct{}
	inner   *recordSink
}

func (s *gateSink) Write(p []byte) (int, error) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-s.gate
	return s.inner.Write(p)
}
