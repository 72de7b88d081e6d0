package statemachine

import "testing"

func TestNewMachineStartsInitial(t *testing.T) {
	m := NewMachine()
	if m.Current() != StateInitial {
		t.Fatalf("expected StateInitial, got %s", m.Current())
	}
}

func TestLegalTransitions(t *testing.T) {
	cases := []struct {
		from, to State
	}{
		{StateInitial, StateReserving},
		{StateReserving, StateReserved},
		{StateReserving, StateTerminated},
		{StateReserved, StateAutoProvision},
		{StateReserved, StateProvisioning},
		{StateReserved, StateTerminating},
		{StateAutoProvision, StateProvisioning},
		{StateAutoProvision, StateTerminated},
		{StateProvisioning, StateProvisioned},
		{StateProvisioning, StateTerminated},
		{StateProvisioned, StateReleasing},
		{StateProvisioned, StateTerminating},
		{StateReleasing, StateReserved},
		{StateReleasing, StateTerminated},
		{StateTerminating, StateTerminated},
	}
	for _, c := range cases {
		m := &Machine{state: c.from}
		if err := m.Transition(c.to); err != nil {
			t.Errorf("%s -> %s should be legal, got error: %v", c.from, c.to, err)
		}
		if m.Current() != c.to {
			t.Errorf("expected current state %s, got %s", c.to, m.Current())
		}
	}
}

func TestIllegalTransitions(t *testing.T) {
	cases := []struct {
		from, to State
	}{
		{StateInitial, StateReserved},
		{StateReserved, StateReleasing},
		{StateProvisioned, StateReserving},
		{StateTerminated, StateInitial},
		{StateTerminated, StateReserving},
		{StateReleasing, StateProvisioned},
	}
	for _, c := range cases {
		m := &Machine{state: c.from}
		err := m.Transition(c.to)
		if err == nil {
			t.Errorf("%s -> %s should be illegal", c.from, c.to)
			continue
		}
		var te *TransitionError
		if !asTransitionError(err, &te) {
			t.Errorf("expected *TransitionError, got %T", err)
			continue
		}
		if te.From != c.from || te.To != c.to {
			t.Errorf("unexpected TransitionError fields: %+v", te)
		}
		if m.Current() != c.from {
			t.Errorf("state should not have changed on illegal transition, got %s", m.Current())
		}
	}
}

func asTransitionError(err error, out **TransitionError) bool {
	te, ok := err.(*TransitionError)
	if ok {
		*out = te
	}
	return ok
}

func TestTerminatedHasNoOutgoingTransitions(t *testing.T) {
	if len(transitions[StateTerminated]) != 0 {
		t.Error("Terminated must be a terminal state with no outgoing transitions")
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(StateTerminated) {
		t.Error("StateTerminated should be terminal")
	}
	for _, s := range []State{StateInitial, StateReserving, StateReserved, StateAutoProvision,
		StateProvisioning, StateProvisioned, StateReleasing, StateTerminating} {
		if IsTerminal(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestForceTerminated(t *testing.T) {
	for _, from := range []State{StateReserving, StateProvisioning, StateReleasing} {
		m := &Machine{state: from}
		m.ForceTerminated()
		if m.Current() != StateTerminated {
			t.Errorf("ForceTerminated from %s should land on Terminated, got %s", from, m.Current())
		}
	}
}

func TestStateString(t *testing.T) {
	if StateAutoProvision.String() != "Auto-Provision" {
		t.Errorf("unexpected String(): %s", StateAutoProvision.String())
	}
}
