package directory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"conprint/actor"
)

type noopHandler struct{}

func (h *noopHandler) HandleMessage(ctx context.Context, msg *actor.Message) error {
	return nil
}

// newTestHandle spawns a throwaway actor so tests register complete handles.
func newTestHandle(t *testing.T, sys *actor.System) Handle {
	t.Helper()
	a, err := sys.Spawn(&noopHandler{}, actor.DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to spawn actor: %v", err)
	}
	return Handle{Actor: a, System: sys}
}

func TestRegisterResolve(t *testing.T) {
	sys := actor.NewSystem()
	defer sys.Shutdown(context.Background())

	d := New()
	h := newTestHandle(t, sys)

	if err := d.Register("print", h); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	resolved, err := d.Resolve()
	if err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}
	if resolved.Name != "print" {
		t.Errorf("Expected name 'print', got '%s'", resolved.Name)
	}
	if resolved.Actor.ID() != h.Actor.ID() {
		t.Errorf("Expected actor %d, got %d", h.Actor.ID(), resolved.Actor.ID())
	}
	if resolved.System != sys {
		t.Error("Expected resolved handle to carry the registering system")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	sys := actor.NewSystem()
	defer sys.Shutdown(context.Background())

	d := New()
	if err := d.Register("print", newTestHandle(t, sys)); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	// Same name is refused
	err := d.Register("print", newTestHandle(t, sys))
	if !errors.Is(err, ErrDuplicateService) {
		t.Errorf("Expected ErrDuplicateService, got %v", err)
	}

	// Any second live binding is refused, whatever its name
	err = d.Register("other", newTestHandle(t, sys))
	if !errors.Is(err, ErrDuplicateService) {
		t.Errorf("Expected ErrDuplicateService for second binding, got %v", err)
	}

	// The first registration is unaffected
	resolved, err := d.Resolve()
	if err != nil {
		t.Fatalf("Failed to resolve after duplicate attempt: %v", err)
	}
	if resolved.Name != "print" {
		t.Errorf("Expected original binding 'print', got '%s'", resolved.Name)
	}
}

func TestRegisterInvalid(t *testing.T) {
	sys := actor.NewSystem()
	defer sys.Shutdown(context.Background())

	d := New()

	if err := d.Register("", newTestHandle(t, sys)); err == nil {
		t.Error("Expected error for empty name")
	}
	if err := d.Register("print", Handle{}); err == nil {
		t.Error("Expected error for incomplete handle")
	}
}

func TestResolveBeforeRegister(t *testing.T) {
	d := New()

	_, err := d.Resolve()
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("Expected ErrServiceUnavailable, got %v", err)
	}
}

func TestUnregister(t *testing.T) {
	sys := actor.NewSystem()
	defer sys.Shutdown(context.Background())

	d := New()
	if err := d.Register("print", newTestHandle(t, sys)); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	// A mismatched name leaves the binding alone
	d.Unregister("other")
	if _, err := d.Resolve(); err != nil {
		t.Fatalf("Binding lost to mismatched unregister: %v", err)
	}

	d.Unregister("print")
	if _, err := d.Resolve(); !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("Expected ErrServiceUnavailable after unregister, got %v", err)
	}

	// Idempotent
	d.Unregister("print")
}

func TestLookup(t *testing.T) {
	sys := actor.NewSystem()
	defer sys.Shutdown(context.Background())

	d := New()
	if err := d.Register("print", newTestHandle(t, sys)); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	if _, ok := d.Lookup("print"); !ok {
		t.Error("Expected to find 'print'")
	}
	if _, ok := d.Lookup("missing"); ok {
		t.Error("Did not expect to find 'missing'")
	}
}

func TestConcurrentAccess(t *testing.T) {
	sys := actor.NewSystem()
	defer sys.Shutdown(context.Background())

	d := New()
	h := newTestHandle(t, sys)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				// Outcome varies with interleaving; it must never race
				// or return a half-built handle.
				if err := d.Register("print", h); err == nil {
					if resolved, rerr := d.Resolve(); rerr == nil {
						if resolved.Actor == nil || resolved.System == nil {
							t.Error("Resolved a partially constructed handle")
						}
					}
					d.Unregister("print")
				} else {
					d.Resolve()
				}
			}
		}()
	}
	wg.Wait()
}
