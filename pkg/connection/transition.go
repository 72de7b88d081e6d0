package connection

import (
	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/statemachine"
)

// transition drives m to "to" and translates the state machine's bare
// TransitionError into errs.ConnectionStateTransitionError, so an illegal
// local transition maps to the same stable wire ID and errors.Is sentinel
// every other error kind in this system does.
func transition(m *statemachine.Machine, to statemachine.State) error {
	return errs.FromTransitionError(m.Transition(to))
}
