// Package statemachine implements the connection lifecycle state enum and
// legal-transition table shared by sub-connections and the aggregating
// connection.
package statemachine

import (
	"fmt"
	"sync"
)

// State is one of the nine connection lifecycle states.
type State int

const (
	StateInitial State = iota
	StateReserving
	StateReserved
	StateAutoProvision
	StateProvisioning
	StateProvisioned
	StateReleasing
	StateTerminating
	StateTerminated
)

var stateNames = map[State]string{
	StateInitial:       "Initial",
	StateReserving:     "Reserving",
	StateReserved:      "Reserved",
	StateAutoProvision: "Auto-Provision",
	StateProvisioning:  "Provisioning",
	StateProvisioned:   "Provisioned",
	StateReleasing:     "Releasing",
	StateTerminating:   "Terminating",
	StateTerminated:    "Terminated",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// transitions is the exhaustive legal-transition table. Anything not
// listed here is illegal.
var transitions = map[State][]State{
	StateInitial:       {StateReserving},
	StateReserving:     {StateReserved, StateTerminated},
	StateReserved:      {StateAutoProvision, StateProvisioning, StateTerminating},
	StateAutoProvision: {StateProvisioning, StateTerminated},
	StateProvisioning:  {StateProvisioned, StateTerminated},
	StateProvisioned:   {StateReleasing, StateTerminating},
	StateReleasing:     {StateReserved, StateTerminated},
	StateTerminating:   {StateTerminated},
	StateTerminated:    {},
}

// IsTerminal reports whether s is the single terminal state.
func IsTerminal(s State) bool {
	return s == StateTerminated
}

func legal(from, to State) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Machine guards a connection's current state behind a mutex and rejects
// any transition not present in the legal-transition table.
type Machine struct {
	mu    sync.RWMutex
	state State
}

// NewMachine returns a Machine starting at StateInitial.
func NewMachine() *Machine {
	return &Machine{state: StateInitial}
}

// Current returns the machine's current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Transition moves the machine to "to" if the legal-transition table
// permits it from the current state. The caller gets a
// *TransitionError (a struct with From and To fields, which this package
// defines to avoid an import cycle with pkg/errs) on failure.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !legal(m.state, to) {
		return &TransitionError{From: m.state, To: to}
	}
	m.state = to
	return nil
}

// ForceTerminated unconditionally moves the machine to StateTerminated,
// bypassing the transition table. pkg/connection does not call it: a
// sub-connection that observes a downstream failure moves to Terminated
// with an ordinary Transition, which the table permits from every
// in-flight state.
func (m *Machine) ForceTerminated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateTerminated
}

// TransitionError reports an attempted transition the table does not
// permit. pkg/errs wraps this as its own ConnectionStateTransitionError
// for the project's unified Unwrap-chain, but the raw fields are exposed
// here too so pkg/statemachine has no dependency on pkg/errs.
type TransitionError struct {
	From, To State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}
