package actor

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSystemSpawn(t *testing.T) {
	sys := NewSystem()
	defer sys.Shutdown(context.Background())

	opts := DefaultOptions()
	opts.Name = "spawned"

	a, err := sys.Spawn(&echoHandler{}, opts)
	if err != nil {
		t.Fatalf("Failed to spawn actor: %v", err)
	}

	found, ok := sys.Lookup(a.ID())
	if !ok {
		t.Fatalf("Expected to find actor %d in the system", a.ID())
	}
	if found.ID() != a.ID() {
		t.Errorf("Expected actor %d, got %d", a.ID(), found.ID())
	}

	if err := a.Send(&Message{Type: MessageText, Payload: "ping"}); err != nil {
		t.Errorf("Failed to send to spawned actor: %v", err)
	}
}

func TestSystemSpawnAppliesDefaults(t *testing.T) {
	sys := NewSystem()
	defer sys.Shutdown(context.Background())

	a, err := sys.Spawn(&echoHandler{}, Options{})
	if err != nil {
		t.Fatalf("Failed to spawn actor: %v", err)
	}

	// Default mailbox size is in effect; a send must not be rejected as full
	if err := a.Send(&Message{Type: MessageText, Payload: "ok"}); err != nil {
		t.Errorf("Expected send to succeed with default mailbox, got %v", err)
	}
}

func TestSystemAllocIDUnique(t *testing.T) {
	sys := NewSystem()

	const n = 100
	var mu sync.Mutex
	seen := make(map[ID]bool, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := sys.AllocID()
			mu.Lock()
			defer mu.Unlock()
			if seen[id] {
				t.Errorf("Duplicate ID allocated: %d", id)
			}
			seen[id] = true
		}()
	}
	wg.Wait()
}

func TestSystemShutdown(t *testing.T) {
	sys := NewSystem()

	var actors []Actor
	for i := 0; i < 3; i++ {
		a, err := sys.Spawn(&echoHandler{}, DefaultOptions())
		if err != nil {
			t.Fatalf("Failed to spawn actor %d: %v", i, err)
		}
		actors = append(actors, a)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sys.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	for _, a := range actors {
		if state := a.Stats().State; state != StateStopped {
			t.Errorf("Expected actor %d stopped, got %s", a.ID(), state)
		}
	}

	// Spawning after shutdown fails
	if _, err := sys.Spawn(&echoHandler{}, DefaultOptions()); err == nil {
		t.Error("Expected spawn after shutdown to fail")
	}
}

func TestSystemShutdownTimeout(t *testing.T) {
	sys := NewSystem()

	handler := &gateHandler{
		entered: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
	a, err := sys.Spawn(handler, DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to spawn actor: %v", err)
	}

	// Park the actor inside its handler
	if err := a.Send(&Message{Type: MessageText, Payload: "stuck"}); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}
	select {
	case <-handler.entered:
	case <-time.After(time.Second):
		t.Fatal("Handler never picked up the message")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := sys.Shutdown(ctx); err != context.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}

	// Unblock the actor so its goroutine can finish
	close(handler.gate)
}

func TestSystemStats(t *testing.T) {
	sys := NewSystem()
	defer sys.Shutdown(context.Background())

	for i := 0; i < 2; i++ {
		if _, err := sys.Spawn(&echoHandler{}, DefaultOptions()); err != nil {
			t.Fatalf("Failed to spawn actor %d: %v", i, err)
		}
	}

	stats := sys.Stats()
	if len(stats) != 2 {
		t.Errorf("Expected stats for 2 actors, got %d", len(stats))
	}
}
