// Package requester implements the requester-side callback surface: the
// entry points a peer NSA's provider invokes to deliver the eventual
// outcome of a reservation, provision, release, or terminate request this
// agent issued against it. Grounded on
// original_source/opennsa/protocols/nsi2/requesterservice.py's
// RequesterService, which registers exactly this set of decoders in its
// constructor.
package requester

import (
	"context"
	"fmt"

	"github.com/ogfnsi/nsa-core/pkg/connection"
	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/label"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
	"github.com/ogfnsi/nsa-core/pkg/registry"
	"github.com/ogfnsi/nsa-core/pkg/statemachine"
	"github.com/ogfnsi/nsa-core/pkg/util"
)

// Callbacks implements the requester-side entry points a peer's provider
// invokes to deliver the outcome of an outstanding remote-path operation.
// Each method resolves the Pending Future the blocked SubConnection call
// is waiting on, rather than driving the sub-connection's state machine
// directly — the sub-connection's own Reserve/Provision/etc. method does
// that once its Wait returns.
type Callbacks struct {
	reg     *registry.Registry
	errors  *errs.ErrorRegistry
	pending *Pending
}

// New builds a Callbacks bound to reg for sub-connection lookup, errs for
// mapping unknown wire error IDs, and pending for resolving the Future a
// blocked remote-path call is waiting on.
func New(reg *registry.Registry, errors *errs.ErrorRegistry, pending *Pending) *Callbacks {
	return &Callbacks{reg: reg, errors: errors, pending: pending}
}

// Ack is the generic acknowledgement every callback entry point returns on
// success. The wire codec marshals it back to the peer as the reply to
// the one-way notification it just delivered.
type Ack struct {
	CorrelationID string
}

func ackFor(header nsatype.Header) Ack {
	return Ack{CorrelationID: header.CorrelationID}
}

// findSubConnection walks every tracked Connection's children looking for
// connectionID, returning ConnectionNonExistentError if no connection
// knows about it at all, or ConnectionGoneError if the owning aggregate
// has already reached its terminal state. Both are reported with a
// generic ack still returned to the caller: per spec.md §7, a malformed
// or stale callback means the message was delivered, only its content is
// bad, and the peer's retry/cleanup logic does not need a transport-level
// failure to know that.
func (c *Callbacks) findSubConnection(connectionID string) (*connection.SubConnection, error) {
	for _, conn := range c.reg.List() {
		for _, sub := range conn.Children() {
			if sub.ConnectionID != connectionID {
				continue
			}
			if conn.State() == statemachine.StateTerminated {
				return nil, &errs.ConnectionGoneError{ConnectionID: connectionID}
			}
			return sub, nil
		}
	}
	return nil, &errs.ConnectionNonExistentError{ConnectionID: connectionID}
}

func (c *Callbacks) resolve(connectionID, operation string, err error) {
	if !c.pending.Resolve(connectionID, operation, err) {
		util.WithConnection(connectionID).WithField("operation", operation).
			Warn("requester: callback arrived for an operation nobody is waiting on")
	}
}

func (c *Callbacks) lookupFailure(errorID, text string) error {
	return c.errors.Lookup(errorID, text)
}

// ReserveConfirmed delivers the service parameters the peer actually
// reserved. sourceVLAN/destVLAN are lifted onto the source/destination STP
// as single-value label.EthernetVLANType labels before the EthernetVLAN
// service criteria is built — an exact port of requesterservice.py's
// reserveConfirmed, which performs the same lift from separate wire
// fields before constructing its criteria object.
func (c *Callbacks) ReserveConfirmed(ctx context.Context, header nsatype.Header, connectionID, globalReservationID, description string, revision int, sourceSTP, destSTP nsatype.STP, sourceVLAN, destVLAN int, capacity uint64, mtu, burstSize uint32, directionality string, symmetric bool) (Ack, error) {
	sub, err := c.findSubConnection(connectionID)
	if err != nil {
		return ackFor(header), err
	}

	srcLabel, err := label.New(label.EthernetVLANType, []label.Range{{Lo: sourceVLAN, Hi: sourceVLAN}})
	if err != nil {
		c.resolve(connectionID, "Reserve", err)
		return ackFor(header), err
	}
	dstLabel, err := label.New(label.EthernetVLANType, []label.Range{{Lo: destVLAN, Hi: destVLAN}})
	if err != nil {
		c.resolve(connectionID, "Reserve", err)
		return ackFor(header), err
	}
	sourceSTP.Labels = []*label.Label{srcLabel}
	destSTP.Labels = []*label.Label{dstLabel}

	svc, err := nsatype.NewEthernetVLANService(sourceSTP, destSTP, capacity, mtu, burstSize, directionality, symmetric, nil)
	if err != nil {
		c.resolve(connectionID, "Reserve", err)
		return ackFor(header), err
	}
	sub.RecordConfirmed(nsatype.Criteria{Revision: revision, ServiceDef: svc})

	c.resolve(connectionID, "Reserve", nil)
	return ackFor(header), nil
}

// ReserveFailed delivers a reservation failure, mapping the peer's wire
// error ID through the error registry.
func (c *Callbacks) ReserveFailed(ctx context.Context, header nsatype.Header, connectionID, errorID, text string) (Ack, error) {
	if _, err := c.findSubConnection(connectionID); err != nil {
		return ackFor(header), err
	}
	c.resolve(connectionID, "Reserve", c.lookupFailure(errorID, text))
	return ackFor(header), nil
}

// ReserveCommitConfirmed delivers the second-phase commit confirmation of
// a two-phase reserve. This agent's own SubConnection.Reserve does not
// implement the two-phase split, but the notification is still bound and
// acknowledged so a peer that does use it is not left retrying forever.
func (c *Callbacks) ReserveCommitConfirmed(ctx context.Context, header nsatype.Header, connectionID string) (Ack, error) {
	if _, err := c.findSubConnection(connectionID); err != nil {
		return ackFor(header), err
	}
	c.resolve(connectionID, "ReserveCommit", nil)
	return ackFor(header), nil
}

// ReserveCommitFailed delivers a two-phase reserve commit failure.
func (c *Callbacks) ReserveCommitFailed(ctx context.Context, header nsatype.Header, connectionID, errorID, text string) (Ack, error) {
	if _, err := c.findSubConnection(connectionID); err != nil {
		return ackFor(header), err
	}
	c.resolve(connectionID, "ReserveCommit", c.lookupFailure(errorID, text))
	return ackFor(header), nil
}

// ReserveAbortConfirmed delivers confirmation that an in-progress
// reservation was successfully rolled back, the peer-side counterpart of
// CancelReservation.
func (c *Callbacks) ReserveAbortConfirmed(ctx context.Context, header nsatype.Header, connectionID string) (Ack, error) {
	if _, err := c.findSubConnection(connectionID); err != nil {
		return ackFor(header), err
	}
	c.resolve(connectionID, "CancelReservation", nil)
	return ackFor(header), nil
}

// ProvisionConfirmed delivers confirmation that the peer activated the
// reserved connection.
func (c *Callbacks) ProvisionConfirmed(ctx context.Context, header nsatype.Header, connectionID string) (Ack, error) {
	if _, err := c.findSubConnection(connectionID); err != nil {
		return ackFor(header), err
	}
	c.resolve(connectionID, "Provision", nil)
	return ackFor(header), nil
}

// ReleaseConfirmed delivers confirmation that the peer deactivated a live
// connection back to reserved-but-not-provisioned.
func (c *Callbacks) ReleaseConfirmed(ctx context.Context, header nsatype.Header, connectionID string) (Ack, error) {
	if _, err := c.findSubConnection(connectionID); err != nil {
		return ackFor(header), err
	}
	c.resolve(connectionID, "Release", nil)
	return ackFor(header), nil
}

// TerminateConfirmed delivers confirmation that the peer tore the
// connection down unconditionally.
func (c *Callbacks) TerminateConfirmed(ctx context.Context, header nsatype.Header, connectionID string) (Ack, error) {
	if _, err := c.findSubConnection(connectionID); err != nil {
		return ackFor(header), err
	}
	c.resolve(connectionID, "Terminate", nil)
	return ackFor(header), nil
}

// TerminateFailed delivers a terminate failure. requesterservice.py
// implements this method but never registers it as a decoder — spec.md
// §9's documented asymmetry. This agent binds it under TERMINATE_FAILED
// in pkg/dispatch anyway rather than reproducing the gap, since a peer
// that sends it deserves an answer.
func (c *Callbacks) TerminateFailed(ctx context.Context, header nsatype.Header, connectionID, errorID, text string) (Ack, error) {
	if _, err := c.findSubConnection(connectionID); err != nil {
		return ackFor(header), err
	}
	c.resolve(connectionID, "Terminate", c.lookupFailure(errorID, text))
	return ackFor(header), nil
}

// QuerySummaryConfirmed delivers the result of a query this agent is not
// currently capable of issuing (query support is a non-goal); still
// acknowledged so an unsolicited or leftover reply from a peer does not
// surface as a transport error.
func (c *Callbacks) QuerySummaryConfirmed(ctx context.Context, header nsatype.Header, connectionIDs []string) (Ack, error) {
	util.WithOperation("QuerySummaryConfirmed").Debugf("received summary for %d connections", len(connectionIDs))
	return ackFor(header), nil
}

// QuerySummaryFailed delivers a query failure.
func (c *Callbacks) QuerySummaryFailed(ctx context.Context, header nsatype.Header, errorID, text string) (Ack, error) {
	util.WithOperation("QuerySummaryFailed").Warn(c.lookupFailure(errorID, text))
	return ackFor(header), nil
}

// ErrorEvent delivers an asynchronous, out-of-band error notification not
// tied to any single pending call — e.g. a data-plane fault the peer
// detected after provisioning completed. Logged only; nothing is waiting
// on it.
func (c *Callbacks) ErrorEvent(ctx context.Context, header nsatype.Header, connectionID, errorID, text string) (Ack, error) {
	util.WithConnection(connectionID).Warn(fmt.Errorf("error event from peer: %w", c.lookupFailure(errorID, text)))
	return ackFor(header), nil
}

// DataPlaneStateChange delivers a peer-reported data plane up/down
// transition for an already-provisioned connection.
func (c *Callbacks) DataPlaneStateChange(ctx context.Context, header nsatype.Header, connectionID string, active bool) (Ack, error) {
	util.WithConnection(connectionID).WithField("active", active).Info("data plane state change")
	return ackFor(header), nil
}

// ReserveTimeout delivers notice that a reservation's hold timer expired
// before it was committed or aborted, and the peer auto-terminated it. Any
// SubConnection.Reserve still blocked on this connection ID is unblocked
// with an InternalServerError rather than left waiting past the timer.
func (c *Callbacks) ReserveTimeout(ctx context.Context, header nsatype.Header, connectionID string) (Ack, error) {
	util.WithConnection(connectionID).Warn("reservation hold timer expired")
	c.resolve(connectionID, "Reserve", &errs.InternalServerError{Cause: fmt.Errorf("reservation hold timer expired for %s", connectionID)})
	return ackFor(header), nil
}

// MessageDeliveryTimeout delivers notice that a request this agent sent
// was never acknowledged within the transport's delivery window. The
// operation name is not carried on the wire for this notification, so
// every Pending entry for this connection ID is left for the caller's own
// context deadline to unblock; this is logged so the gap is visible to an
// operator.
func (c *Callbacks) MessageDeliveryTimeout(ctx context.Context, header nsatype.Header, connectionID, correlationID string) (Ack, error) {
	util.WithConnection(connectionID).WithField("correlation_id", correlationID).
		Warn("message delivery timeout reported by transport")
	return ackFor(header), nil
}
