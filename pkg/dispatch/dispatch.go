// Package dispatch wires requester.Callbacks methods against codec.Registry
// action names, mirroring requesterservice.py's RequesterService.__init__,
// which registers one decoder per wire action against the methods it
// exposes.
package dispatch

import (
	"context"
	"fmt"

	"github.com/ogfnsi/nsa-core/pkg/codec"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
	"github.com/ogfnsi/nsa-core/pkg/requester"
)

// ReserveConfirmedPayload carries the fields requesterservice.py's
// reserveConfirmed parses off the wire before lifting sourceVLAN/destVLAN
// into labels.
type ReserveConfirmedPayload struct {
	ConnectionID        string
	GlobalReservationID string
	Description         string
	Revision            int
	SourceSTP, DestSTP  nsatype.STP
	SourceVLAN, DestVLAN int
	Capacity            uint64
	MTU, BurstSize       uint32
	Directionality      string
	Symmetric           bool
}

// ConnectionPayload is the common shape of every bare confirmation
// notification that carries nothing but the connection ID.
type ConnectionPayload struct {
	ConnectionID string
}

// FailurePayload is the common shape of every failure notification: a
// connection ID plus the peer's wire error ID and free-text detail.
type FailurePayload struct {
	ConnectionID string
	ErrorID      string
	Text         string
}

// QuerySummaryConfirmedPayload carries the connection IDs a query summary
// response covers.
type QuerySummaryConfirmedPayload struct {
	ConnectionIDs []string
}

// QuerySummaryFailedPayload carries a query-level failure, unscoped to any
// single connection.
type QuerySummaryFailedPayload struct {
	ErrorID string
	Text    string
}

// DataPlaneStateChangePayload reports a peer's data plane up/down
// transition for an already-provisioned connection.
type DataPlaneStateChangePayload struct {
	ConnectionID string
	Active       bool
}

// MessageDeliveryTimeoutPayload reports that an outbound request was never
// acknowledged within the transport's delivery window.
type MessageDeliveryTimeoutPayload struct {
	ConnectionID  string
	CorrelationID string
}

func badPayload(action string, payload any) error {
	return fmt.Errorf("dispatch: %s: unexpected payload type %T", action, payload)
}

// Register binds every requester.Callbacks entry point to its wire action
// name on reg. terminateFailed is bound under codec.ActionTerminateFailed
// even though requesterservice.py never registers it as a decoder — the
// asymmetry spec.md §9 documents — since a peer that sends it still
// deserves an answer rather than a dropped message.
func Register(reg *codec.Registry, cb *requester.Callbacks) {
	reg.Register(codec.ActionReserveConfirmed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(ReserveConfirmedPayload)
		if !ok {
			return nil, badPayload(codec.ActionReserveConfirmed, payload)
		}
		ack, err := cb.ReserveConfirmed(context.Background(), header, p.ConnectionID, p.GlobalReservationID, p.Description, p.Revision,
			p.SourceSTP, p.DestSTP, p.SourceVLAN, p.DestVLAN, p.Capacity, p.MTU, p.BurstSize, p.Directionality, p.Symmetric)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionReserveConfirmed, ack)
	})

	reg.Register(codec.ActionReserveFailed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(FailurePayload)
		if !ok {
			return nil, badPayload(codec.ActionReserveFailed, payload)
		}
		ack, err := cb.ReserveFailed(context.Background(), header, p.ConnectionID, p.ErrorID, p.Text)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionReserveFailed, ack)
	})

	reg.Register(codec.ActionReserveCommitConfirmed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(ConnectionPayload)
		if !ok {
			return nil, badPayload(codec.ActionReserveCommitConfirmed, payload)
		}
		ack, err := cb.ReserveCommitConfirmed(context.Background(), header, p.ConnectionID)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionReserveCommitConfirmed, ack)
	})

	reg.Register(codec.ActionReserveCommitFailed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(FailurePayload)
		if !ok {
			return nil, badPayload(codec.ActionReserveCommitFailed, payload)
		}
		ack, err := cb.ReserveCommitFailed(context.Background(), header, p.ConnectionID, p.ErrorID, p.Text)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionReserveCommitFailed, ack)
	})

	reg.Register(codec.ActionReserveAbortConfirmed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(ConnectionPayload)
		if !ok {
			return nil, badPayload(codec.ActionReserveAbortConfirmed, payload)
		}
		ack, err := cb.ReserveAbortConfirmed(context.Background(), header, p.ConnectionID)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionReserveAbortConfirmed, ack)
	})

	reg.Register(codec.ActionProvisionConfirmed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(ConnectionPayload)
		if !ok {
			return nil, badPayload(codec.ActionProvisionConfirmed, payload)
		}
		ack, err := cb.ProvisionConfirmed(context.Background(), header, p.ConnectionID)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionProvisionConfirmed, ack)
	})

	reg.Register(codec.ActionReleaseConfirmed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(ConnectionPayload)
		if !ok {
			return nil, badPayload(codec.ActionReleaseConfirmed, payload)
		}
		ack, err := cb.ReleaseConfirmed(context.Background(), header, p.ConnectionID)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionReleaseConfirmed, ack)
	})

	reg.Register(codec.ActionTerminateConfirmed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(ConnectionPayload)
		if !ok {
			return nil, badPayload(codec.ActionTerminateConfirmed, payload)
		}
		ack, err := cb.TerminateConfirmed(context.Background(), header, p.ConnectionID)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionTerminateConfirmed, ack)
	})

	reg.Register(codec.ActionTerminateFailed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(FailurePayload)
		if !ok {
			return nil, badPayload(codec.ActionTerminateFailed, payload)
		}
		ack, err := cb.TerminateFailed(context.Background(), header, p.ConnectionID, p.ErrorID, p.Text)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionTerminateFailed, ack)
	})

	reg.Register(codec.ActionQuerySummaryConfirmed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(QuerySummaryConfirmedPayload)
		if !ok {
			return nil, badPayload(codec.ActionQuerySummaryConfirmed, payload)
		}
		ack, err := cb.QuerySummaryConfirmed(context.Background(), header, p.ConnectionIDs)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionQuerySummaryConfirmed, ack)
	})

	reg.Register(codec.ActionQuerySummaryFailed, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(QuerySummaryFailedPayload)
		if !ok {
			return nil, badPayload(codec.ActionQuerySummaryFailed, payload)
		}
		ack, err := cb.QuerySummaryFailed(context.Background(), header, p.ErrorID, p.Text)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionQuerySummaryFailed, ack)
	})

	reg.Register(codec.ActionErrorEvent, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(FailurePayload)
		if !ok {
			return nil, badPayload(codec.ActionErrorEvent, payload)
		}
		ack, err := cb.ErrorEvent(context.Background(), header, p.ConnectionID, p.ErrorID, p.Text)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionErrorEvent, ack)
	})

	reg.Register(codec.ActionDataPlaneStateChange, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(DataPlaneStateChangePayload)
		if !ok {
			return nil, badPayload(codec.ActionDataPlaneStateChange, payload)
		}
		ack, err := cb.DataPlaneStateChange(context.Background(), header, p.ConnectionID, p.Active)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionDataPlaneStateChange, ack)
	})

	reg.Register(codec.ActionReserveTimeout, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(ConnectionPayload)
		if !ok {
			return nil, badPayload(codec.ActionReserveTimeout, payload)
		}
		ack, err := cb.ReserveTimeout(context.Background(), header, p.ConnectionID)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionReserveTimeout, ack)
	})

	reg.Register(codec.ActionMessageDeliveryTimeout, func(header nsatype.Header, payload any) ([]byte, error) {
		p, ok := payload.(MessageDeliveryTimeoutPayload)
		if !ok {
			return nil, badPayload(codec.ActionMessageDeliveryTimeout, payload)
		}
		ack, err := cb.MessageDeliveryTimeout(context.Background(), header, p.ConnectionID, p.CorrelationID)
		if err != nil {
			return nil, err
		}
		return reg.Encode(codec.ActionMessageDeliveryTimeout, ack)
	})
}
