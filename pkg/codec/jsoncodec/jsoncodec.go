// Package jsoncodec provides a demonstration codec.Codec that marshals
// messages as JSON envelopes instead of the real NSI SOAP/XML wire format
// (out of scope for this module). It exists so `nsa-agent serve` has
// something concrete to decode inbound requests with.
package jsoncodec

import (
	"encoding/json"
	"fmt"

	"github.com/ogfnsi/nsa-core/pkg/dispatch"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
)

// envelope is the wire shape every message round-trips through: an action
// name, the common header, and an action-specific payload.
type envelope struct {
	Kind    string          `json:"kind"`
	Header  nsatype.Header  `json:"header"`
	Payload json.RawMessage `json:"payload"`
}

// Codec implements codec.Codec over JSON envelopes.
type Codec struct{}

// New returns a Codec.
func New() *Codec {
	return &Codec{}
}

// Encode marshals payload as an envelope tagged with kind. The header is
// left zero-valued: this is used to encode acknowledgements and replies,
// which don't carry their own header distinct from the request they
// answer.
func (c *Codec) Encode(kind string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("jsoncodec: encoding %s payload: %w", kind, err)
	}
	return json.Marshal(envelope{Kind: kind, Payload: raw})
}

// Decode parses data as an envelope and unmarshals its payload into the
// concrete Go type pkg/dispatch's Register expects for that action.
func (c *Codec) Decode(data []byte) (string, nsatype.Header, any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nsatype.Header{}, nil, fmt.Errorf("jsoncodec: decoding envelope: %w", err)
	}

	payload, err := decodePayload(env.Kind, env.Payload)
	if err != nil {
		return "", nsatype.Header{}, nil, err
	}
	return env.Kind, env.Header, payload, nil
}

func decodePayload(kind string, raw json.RawMessage) (any, error) {
	target, err := emptyPayload(kind)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("jsoncodec: decoding %s payload: %w", kind, err)
		}
	}
	// target is always a pointer; the registered handlers type-assert the
	// pointed-to value, not the pointer.
	return derefPayload(target), nil
}

// These constants list the action names this import cycle-free package
// knows how to decode. Kept in lockstep with pkg/dispatch.Register's
// registered actions and the action constants in pkg/codec.
const (
	actionReserveConfirmed       = "RESERVE_CONFIRMED"
	actionReserveFailed          = "RESERVE_FAILED"
	actionReserveCommitConfirmed = "RESERVE_COMMIT_CONFIRMED"
	actionReserveCommitFailed    = "RESERVE_COMMIT_FAILED"
	actionReserveAbortConfirmed  = "RESERVE_ABORT_CONFIRMED"
	actionProvisionConfirmed     = "PROVISION_CONFIRMED"
	actionReleaseConfirmed       = "RELEASE_CONFIRMED"
	actionTerminateConfirmed     = "TERMINATE_CONFIRMED"
	actionTerminateFailed        = "TERMINATE_FAILED"
	actionQuerySummaryConfirmed  = "QUERY_SUMMARY_CONFIRMED"
	actionQuerySummaryFailed     = "QUERY_SUMMARY_FAILED"
	actionErrorEvent             = "ERROR_EVENT"
	actionDataPlaneStateChange   = "DATA_PLANE_STATE_CHANGE"
	actionReserveTimeout         = "RESERVE_TIMEOUT"
	actionMessageDeliveryTimeout = "MESSAGE_DELIVERY_TIMEOUT"
)

func emptyPayload(kind string) (any, error) {
	switch kind {
	case actionReserveConfirmed:
		return &dispatch.ReserveConfirmedPayload{}, nil
	case actionReserveFailed, actionReserveCommitFailed, actionTerminateFailed, actionErrorEvent:
		return &dispatch.FailurePayload{}, nil
	case actionReserveCommitConfirmed, actionReserveAbortConfirmed, actionProvisionConfirmed,
		actionReleaseConfirmed, actionTerminateConfirmed, actionReserveTimeout:
		return &dispatch.ConnectionPayload{}, nil
	case actionQuerySummaryConfirmed:
		return &dispatch.QuerySummaryConfirmedPayload{}, nil
	case actionQuerySummaryFailed:
		return &dispatch.QuerySummaryFailedPayload{}, nil
	case actionDataPlaneStateChange:
		return &dispatch.DataPlaneStateChangePayload{}, nil
	case actionMessageDeliveryTimeout:
		return &dispatch.MessageDeliveryTimeoutPayload{}, nil
	default:
		return nil, fmt.Errorf("jsoncodec: unknown action %q", kind)
	}
}

func derefPayload(target any) any {
	switch p := target.(type) {
	case *dispatch.ReserveConfirmedPayload:
		return *p
	case *dispatch.FailurePayload:
		return *p
	case *dispatch.ConnectionPayload:
		return *p
	case *dispatch.QuerySummaryConfirmedPayload:
		return *p
	case *dispatch.QuerySummaryFailedPayload:
		return *p
	case *dispatch.DataPlaneStateChangePayload:
		return *p
	case *dispatch.MessageDeliveryTimeoutPayload:
		return *p
	default:
		return target
	}
}
