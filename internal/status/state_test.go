package status

import (
	"testing"
	"time"

	"github.com/ifaasih/mvx/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Booting {
		t.Errorf("initial state = %s, want %s", m.Current(), Booting)
	}
}

func TestValidTransitionChain(t *testing.T) {
	m := NewMachine(nil)
	for _, to := range []State{Loading, Indexing, Ready, Loading} {
		if err := m.Transition(to); err != nil {
			t.Fatalf("Transition(%s) error = %v", to, err)
		}
	}
	if m.Current() != Loading {
		t.Errorf("state = %s, want %s", m.Current(), Loading)
	}
}

func TestInvalidTransition(t *testing.T) {
	m := NewMachine(nil)
	if err := m.Transition(Ready); err == nil {
		t.Error("Booting → Ready should be rejected")
	}
	if m.Current() != Booting {
		t.Errorf("failed transition changed state to %s", m.Current())
	}
}

func TestErrorRecovery(t *testing.T) {
	m := NewMachine(nil)
	mustTransition(t, m, Loading)
	mustTransition(t, m, Error)
	mustTransition(t, m, Loading)
}

func TestTransitionPublishesEvent(t *testing.T) {
	b := bus.New()
	m := NewMachine(b)
	ch, unsub := b.Subscribe("viewer.", 10)
	defer unsub()

	mustTransition(t, m, Loading)

	select {
	case evt := <-ch:
		change, ok := evt.Payload.(StatusChange)
		if !ok {
			t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
		}
		if change.From != Booting || change.To != Loading {
			t.Errorf("change = %+v, want Booting→Loading", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for status event")
	}
}

func mustTransition(t *testing.T, m *Machine, to State) {
	t.Helper()
	if err := m.Transition(to); err != nil {
		t.Fatalf("Transition(%s) error = %v", to, err)
	}
}
