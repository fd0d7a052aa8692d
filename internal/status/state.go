package status

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ifaasih/mvx/internal/bus"
)

// State represents a viewer runtime state.
type State string

const (
	Booting  State = "BOOTING"
	Loading  State = "LOADING"
	Indexing State = "INDEXING"
	Ready    State = "READY"
	Error    State = "ERROR"
)

// validTransitions defines allowed state transitions. Ready→Loading covers
// reloading a different export in the same process.
var validTransitions = map[State][]State{
	Booting:  {Loading, Error},
	Loading:  {Indexing, Error},
	Indexing: {Ready, Error},
	Ready:    {Loading, Error},
	Error:    {Loading},
}

// Machine tracks and enforces viewer runtime state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Booting state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Booting,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns an error if the
// transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindStatusChanged,
			Timestamp: time.Now(),
			Payload: StatusChange{
				From: from,
				To:   to,
			},
		})
	}
	return nil
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
