package connection

import (
	"context"
	"sync"

	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
	"github.com/ogfnsi/nsa-core/pkg/statemachine"
	"golang.org/x/sync/errgroup"
)

// Connection aggregates a local sub-connection (if this path has a local
// segment) and zero or more remote sub-connections, and presents the same
// four lifecycle operations its own requester sees, fanning each one out
// to every child concurrently and collapsing the results.
type Connection struct {
	mu sync.RWMutex

	RequesterNSA         nsatype.NSA
	ConnectionID         string
	SourceSTP, DestSTP   nsatype.STP
	GlobalReservationID  string
	Description          string

	machine *statemachine.Machine

	local *SubConnection
	subs  []*SubConnection

	serviceParameters nsatype.Criteria
}

// New builds an aggregating Connection over the given local sub-connection
// (nil if this path has no local segment) and remote sub-connections.
func New(requesterNSA nsatype.NSA, connectionID string, source, dest nsatype.STP, globalReservationID, description string, local *SubConnection, subs []*SubConnection) *Connection {
	return &Connection{
		RequesterNSA:        requesterNSA,
		ConnectionID:        connectionID,
		SourceSTP:           source,
		DestSTP:             dest,
		GlobalReservationID: globalReservationID,
		Description:         description,
		machine:             statemachine.NewMachine(),
		local:               local,
		subs:                subs,
	}
}

// State returns the connection's current lifecycle state.
func (c *Connection) State() statemachine.State {
	return c.machine.Current()
}

// ServiceParameters returns the criteria recorded by the most recent
// Reserve call.
func (c *Connection) ServiceParameters() nsatype.Criteria {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serviceParameters
}

// HasLocalConnection reports whether this path has a local segment.
func (c *Connection) HasLocalConnection() bool {
	return c.local != nil
}

// Children returns every sub-connection driving this connection's path, in
// fan-out order: the local segment first (if present), then every remote
// leg. Used by the requester callback surface to resolve an inbound
// confirmation back to the sub-connection it belongs to.
func (c *Connection) Children() []*SubConnection {
	return c.connections()
}

// connections returns every child in fan-out order: the local segment
// first (if present), followed by every remote sub-connection.
func (c *Connection) connections() []*SubConnection {
	if c.local == nil {
		return c.subs
	}
	out := make([]*SubConnection, 0, len(c.subs)+1)
	out = append(out, c.local)
	out = append(out, c.subs...)
	return out
}

// fanOut launches op against every child concurrently and waits for all of
// them to report, regardless of whether any fail — a sub-connection's
// eventual outcome must always be observed, even after a sibling failure
// has already doomed the parent. It deliberately uses a bare errgroup.Group
// rather than WithContext: the latter cancels every other goroutine's
// context on the first error, and a sibling's outstanding backend or proxy
// call must never be cancelled just because another leg failed.
func fanOut(children []*SubConnection, op func(*SubConnection) error) []error {
	results := make([]error, len(children))
	var eg errgroup.Group
	for i, child := range children {
		i, child := i, child
		eg.Go(func() error {
			results[i] = op(child)
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

// collapse applies the aggregation policy table: all children succeeding
// transitions the parent to onSuccess; any failure (partial or total)
// transitions it to Terminated and returns an AggregationError recording
// whether the failure was partial.
func collapse(op string, machine *statemachine.Machine, onSuccess statemachine.State, results []error) error {
	var failed []string
	for _, err := range results {
		if err != nil {
			failed = append(failed, err.Error())
		}
	}

	if len(failed) == 0 {
		return transition(machine, onSuccess)
	}

	partial := len(failed) < len(results)
	if err := transition(machine, statemachine.StateTerminated); err != nil {
		return err
	}
	return errs.NewAggregationError(op, partial, failed)
}

// Reserve transitions the connection to Reserving, records params, and
// fans a reservation request out to every child.
func (c *Connection) Reserve(ctx context.Context, params nsatype.Criteria) error {
	if err := transition(c.machine, statemachine.StateReserving); err != nil {
		return err
	}
	c.mu.Lock()
	c.serviceParameters = params
	c.mu.Unlock()

	results := fanOut(c.connections(), func(sc *SubConnection) error {
		return sc.Reserve(ctx, c.GlobalReservationID, c.Description, params)
	})
	return collapse("Reserve", c.machine, statemachine.StateReserved, results)
}

// CancelReservation fans a cancellation out to every child.
func (c *Connection) CancelReservation(ctx context.Context) error {
	if err := transition(c.machine, statemachine.StateTerminating); err != nil {
		return err
	}
	results := fanOut(c.connections(), func(sc *SubConnection) error {
		return sc.CancelReservation(ctx)
	})
	return collapse("CancelReservation", c.machine, statemachine.StateTerminated, results)
}

// Provision fans a provision request out to every child.
func (c *Connection) Provision(ctx context.Context) error {
	if err := transition(c.machine, statemachine.StateProvisioning); err != nil {
		return err
	}
	results := fanOut(c.connections(), func(sc *SubConnection) error {
		return sc.Provision(ctx)
	})
	return collapse("Provision", c.machine, statemachine.StateProvisioned, results)
}

// ReleaseProvision fans a release request out to every child.
func (c *Connection) ReleaseProvision(ctx context.Context) error {
	if err := transition(c.machine, statemachine.StateReleasing); err != nil {
		return err
	}
	results := fanOut(c.connections(), func(sc *SubConnection) error {
		return sc.ReleaseProvision(ctx)
	})
	return collapse("Release", c.machine, statemachine.StateReserved, results)
}

// Terminate tears a connection down from either Reserved (cancelling a
// reservation nothing was ever provisioned against) or Provisioned
// (tearing down a live data plane). It is the aggregator-level
// counterpart to the wire TERMINATE action. It accepts the same source
// states as CancelReservation and differs from it only in the error kind
// it reports on failure; the downstream per-child call is the same
// teardown each sub-connection already exposes.
func (c *Connection) Terminate(ctx context.Context) error {
	if err := transition(c.machine, statemachine.StateTerminating); err != nil {
		return err
	}
	results := fanOut(c.connections(), func(sc *SubConnection) error {
		return sc.CancelReservation(ctx)
	})
	return collapse("Terminate", c.machine, statemachine.StateTerminated, results)
}
