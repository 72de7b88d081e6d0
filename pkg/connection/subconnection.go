// Package connection implements the two halves of the connection
// lifecycle: a sub-connection (tagged local/remote variant) that drives a
// single backend or peer, and an aggregating connection that fans a
// lifecycle operation out to all of a parent's children and collapses
// their outcomes.
package connection

import (
	"context"
	"fmt"
	"sync"

	"github.com/ogfnsi/nsa-core/pkg/backend"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
	"github.com/ogfnsi/nsa-core/pkg/proxy"
	"github.com/ogfnsi/nsa-core/pkg/statemachine"
)

// Kind distinguishes a sub-connection driving a local hardware backend
// from one driving a remote peer over a proxy.
type Kind int

const (
	KindLocal Kind = iota
	KindRemote
)

func (k Kind) String() string {
	if k == KindLocal {
		return "local"
	}
	return "remote"
}

// Future is a handle a remote sub-connection operation blocks on until the
// peer's eventual confirmation or failure arrives. Declared locally rather
// than imported from pkg/requester (whose *Future satisfies it) because
// pkg/requester already imports this package for sub-connection lookup —
// importing it back here would cycle.
type Future interface {
	Wait(ctx context.Context) error
}

// PendingRegistry registers the Future for one outstanding remote-path
// operation, keyed by connection ID and operation name ("Reserve",
// "CancelReservation", "Provision", "Release"). Satisfied by
// *requester.Pending.
type PendingRegistry interface {
	Register(connectionID, operation string) Future
}

// SubConnection is a single child of an aggregating Connection: either a
// local leg (talking to a Backend) or a remote leg (talking to a peer NSA
// through a Proxy). Which is which is carried in Kind rather than in the
// type system, since every other field and every operation's shape is
// identical between the two — only the downstream call differs.
type SubConnection struct {
	Kind Kind

	Network            string
	SourceSTP, DestSTP nsatype.STP

	// ConnectionID is the wire-level connection ID used in proxy calls and
	// as the Pending lookup key for a remote sub-connection. It is assigned
	// by the aggregator at creation time, unlike the backend-assigned IDs
	// below.
	ConnectionID string

	// SourceEndpoint/DestEndpoint address a local sub-connection's backend
	// call; unused for remote sub-connections.
	SourceEndpoint, DestEndpoint string

	machine *statemachine.Machine

	backend backend.Backend
	proxy   proxy.Proxy
	pending PendingRegistry

	// internalReservationID/internalConnectionID are local-only bookkeeping:
	// the backend's own IDs for the reservation/connection it created,
	// needed to drive subsequent operations against it.
	internalReservationID string
	internalConnectionID  string

	confirmedMu       sync.Mutex
	confirmedCriteria *nsatype.Criteria
}

// NewLocalSubConnection builds a sub-connection driving a local Backend.
func NewLocalSubConnection(sourceEndpoint, destEndpoint string, source, dest nsatype.STP, be backend.Backend) *SubConnection {
	return &SubConnection{
		Kind:           KindLocal,
		SourceSTP:      source,
		DestSTP:        dest,
		SourceEndpoint: sourceEndpoint,
		DestEndpoint:   destEndpoint,
		machine:        statemachine.NewMachine(),
		backend:        be,
	}
}

// NewRemoteSubConnection builds a sub-connection driving a remote peer
// network through a Proxy. connectionID is the wire-level ID the
// aggregator has already assigned for this leg. pending registers the
// Future each remote-path call blocks on until the peer's requester
// callback resolves it.
func NewRemoteSubConnection(network, connectionID string, source, dest nsatype.STP, px proxy.Proxy, pending PendingRegistry) *SubConnection {
	return &SubConnection{
		Kind:         KindRemote,
		Network:      network,
		ConnectionID: connectionID,
		SourceSTP:    source,
		DestSTP:      dest,
		machine:      statemachine.NewMachine(),
		proxy:        px,
		pending:      pending,
	}
}

// State returns the sub-connection's current lifecycle state.
func (s *SubConnection) State() statemachine.State {
	return s.machine.Current()
}

// RecordConfirmed stores the service parameters a peer's ReserveConfirmed
// callback reported for this leg, which may differ from what was
// requested — e.g. a VLAN label the peer negotiated down to a single value.
func (s *SubConnection) RecordConfirmed(criteria nsatype.Criteria) {
	s.confirmedMu.Lock()
	defer s.confirmedMu.Unlock()
	s.confirmedCriteria = &criteria
}

// ConfirmedCriteria returns the criteria last recorded by RecordConfirmed,
// and whether any has been recorded yet.
func (s *SubConnection) ConfirmedCriteria() (nsatype.Criteria, bool) {
	s.confirmedMu.Lock()
	defer s.confirmedMu.Unlock()
	if s.confirmedCriteria == nil {
		return nsatype.Criteria{}, false
	}
	return *s.confirmedCriteria, true
}

// waitOnFuture blocks on future, forcing the sub-connection to Terminated if
// it resolves with an error. Called after a remote proxy call has accepted
// the request synchronously; the actual accept/confirm/fail outcome a real
// peer reports asynchronously arrives through this Future, resolved by
// requester.Callbacks when its matching wire notification is decoded.
func (s *SubConnection) waitOnFuture(ctx context.Context, future Future) error {
	if err := future.Wait(ctx); err != nil {
		s.machine.Transition(statemachine.StateTerminated)
		return err
	}
	return nil
}

// Reserve issues a reservation for this leg, restricted to its own
// source/destination STPs. globalReservationID and description are passed
// through from the parent connection.
func (s *SubConnection) Reserve(ctx context.Context, globalReservationID, description string, params nsatype.Criteria) error {
	if err := transition(s.machine, statemachine.StateReserving); err != nil {
		return err
	}

	subParams, err := params.WithEndpoints(s.SourceSTP, s.DestSTP)
	if err != nil {
		s.machine.Transition(statemachine.StateTerminated)
		return err
	}

	switch s.Kind {
	case KindLocal:
		if s.backend == nil {
			panic("connection: Reserve called on local sub-connection with no backend bound")
		}
		id, err := s.backend.Reserve(ctx, s.SourceEndpoint, s.DestEndpoint, subParams)
		if err != nil {
			s.machine.Transition(statemachine.StateTerminated)
			return err
		}
		s.internalReservationID = id
	case KindRemote:
		if s.proxy == nil {
			panic("connection: Reserve called on remote sub-connection with no proxy bound")
		}
		if s.pending == nil {
			panic("connection: Reserve called on remote sub-connection with no pending registry bound")
		}
		correlationID, err := nsatype.NewCorrelationID()
		if err != nil {
			s.machine.Transition(statemachine.StateTerminated)
			return err
		}
		future := s.pending.Register(s.ConnectionID, "Reserve")
		if err := s.proxy.Reservation(ctx, s.Network, correlationID, globalReservationID, description, s.ConnectionID, subParams); err != nil {
			s.machine.Transition(statemachine.StateTerminated)
			return err
		}
		if err := s.waitOnFuture(ctx, future); err != nil {
			return err
		}
	}

	return transition(s.machine, statemachine.StateReserved)
}

// CancelReservation cancels an outstanding, not-yet-provisioned reservation.
func (s *SubConnection) CancelReservation(ctx context.Context) error {
	if err := transition(s.machine, statemachine.StateTerminating); err != nil {
		return err
	}

	var err error
	switch s.Kind {
	case KindLocal:
		err = s.backend.CancelReservation(ctx, s.internalReservationID)
	case KindRemote:
		var correlationID string
		correlationID, err = nsatype.NewCorrelationID()
		if err != nil {
			break
		}
		future := s.pending.Register(s.ConnectionID, "CancelReservation")
		if err = s.proxy.TerminateReservation(ctx, s.Network, correlationID, s.ConnectionID); err != nil {
			break
		}
		err = future.Wait(ctx)
	}
	if err != nil {
		s.machine.Transition(statemachine.StateTerminated)
		return err
	}
	return transition(s.machine, statemachine.StateTerminated)
}

// Provision activates this leg's reservation.
func (s *SubConnection) Provision(ctx context.Context) error {
	if err := transition(s.machine, statemachine.StateProvisioning); err != nil {
		return err
	}

	switch s.Kind {
	case KindLocal:
		id, err := s.backend.Provision(ctx, s.internalReservationID)
		if err != nil {
			s.machine.Transition(statemachine.StateTerminated)
			return err
		}
		s.internalConnectionID = id
	case KindRemote:
		correlationID, err := nsatype.NewCorrelationID()
		if err != nil {
			s.machine.Transition(statemachine.StateTerminated)
			return err
		}
		future := s.pending.Register(s.ConnectionID, "Provision")
		connID, err := s.proxy.Provision(ctx, s.Network, correlationID, s.ConnectionID)
		if err != nil {
			s.machine.Transition(statemachine.StateTerminated)
			return err
		}
		if connID != s.ConnectionID {
			s.machine.Transition(statemachine.StateTerminated)
			return fmt.Errorf("connection: peer %s returned connection id %q, expected %q", s.Network, connID, s.ConnectionID)
		}
		if err := s.waitOnFuture(ctx, future); err != nil {
			return err
		}
	}

	return transition(s.machine, statemachine.StateProvisioned)
}

// ReleaseProvision deactivates this leg's live connection, returning it to
// the reserved-but-not-provisioned state.
func (s *SubConnection) ReleaseProvision(ctx context.Context) error {
	if err := transition(s.machine, statemachine.StateReleasing); err != nil {
		return err
	}

	switch s.Kind {
	case KindLocal:
		id, err := s.backend.ReleaseProvision(ctx, s.internalConnectionID)
		if err != nil {
			s.machine.Transition(statemachine.StateTerminated)
			return err
		}
		s.internalReservationID = id
		s.internalConnectionID = ""
	case KindRemote:
		correlationID, err := nsatype.NewCorrelationID()
		if err != nil {
			s.machine.Transition(statemachine.StateTerminated)
			return err
		}
		future := s.pending.Register(s.ConnectionID, "Release")
		resID, err := s.proxy.ReleaseProvision(ctx, s.Network, correlationID, s.ConnectionID)
		if err != nil {
			s.machine.Transition(statemachine.StateTerminated)
			return err
		}
		_ = resID
		if err := s.waitOnFuture(ctx, future); err != nil {
			return err
		}
	}

	return transition(s.machine, statemachine.StateReserved)
}
