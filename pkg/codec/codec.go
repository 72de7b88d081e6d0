// Package codec declares the wire-encoding boundary and the action-name
// registry the requester callback surface registers its entry points
// against. No concrete SOAP/XML transport lives here — that is explicitly
// out of scope; pkg/dispatch wires pkg/requester's methods to this
// registry, and a concrete Codec implementation (in this module, the JSON
// demonstration codec in pkg/codec/jsoncodec) drives it from inbound HTTP.
package codec

import (
	"fmt"
	"sync"

	"github.com/ogfnsi/nsa-core/pkg/nsatype"
)

// Well-known NSI action names, per the wire protocol's action-name space.
const (
	ActionReserve                = "RESERVE"
	ActionReserveConfirmed       = "RESERVE_CONFIRMED"
	ActionReserveFailed          = "RESERVE_FAILED"
	ActionReserveCommit          = "RESERVE_COMMIT"
	ActionReserveCommitConfirmed = "RESERVE_COMMIT_CONFIRMED"
	ActionReserveCommitFailed    = "RESERVE_COMMIT_FAILED"
	ActionReserveAbort           = "RESERVE_ABORT"
	ActionReserveAbortConfirmed  = "RESERVE_ABORT_CONFIRMED"
	ActionProvision              = "PROVISION"
	ActionProvisionConfirmed     = "PROVISION_CONFIRMED"
	ActionRelease                = "RELEASE"
	ActionReleaseConfirmed       = "RELEASE_CONFIRMED"
	ActionTerminate              = "TERMINATE"
	ActionTerminateConfirmed     = "TERMINATE_CONFIRMED"
	ActionTerminateFailed        = "TERMINATE_FAILED"
	ActionQuerySummary           = "QUERY_SUMMARY"
	ActionQuerySummaryConfirmed  = "QUERY_SUMMARY_CONFIRMED"
	ActionQuerySummaryFailed     = "QUERY_SUMMARY_FAILED"
	ActionErrorEvent             = "ERROR_EVENT"
	ActionDataPlaneStateChange   = "DATA_PLANE_STATE_CHANGE"
	ActionReserveTimeout         = "RESERVE_TIMEOUT"
	ActionMessageDeliveryTimeout = "MESSAGE_DELIVERY_TIMEOUT"
)

// Codec encodes and decodes the wire representation of a message. kind
// identifies the payload's concrete Go type to Encode; Decode returns that
// same kind string alongside the parsed header and an untyped payload the
// caller type-switches on.
type Codec interface {
	Encode(kind string, payload any) ([]byte, error)
	Decode(data []byte) (kind string, header nsatype.Header, payload any, err error)
}

// Handler processes one decoded message and returns the bytes to send back
// to the peer (typically a generic acknowledgement).
type Handler func(header nsatype.Header, payload any) ([]byte, error)

// Registry maps NSI action names to the handler that services them, and
// owns the Codec used to decode inbound bytes before dispatch. It is safe
// for concurrent use: registration happens once at startup, lookups
// happen continuously from inbound dispatch.
type Registry struct {
	codec    Codec
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty Registry bound to the given Codec.
func NewRegistry(codec Codec) *Registry {
	return &Registry{codec: codec, handlers: make(map[string]Handler)}
}

// Register associates an action name with its handler. A second
// registration for the same action replaces the first.
func (r *Registry) Register(action string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[action] = h
}

// Encode marshals payload as kind through the registry's configured Codec.
// Exposed so a Handler built by pkg/dispatch can encode its own reply
// without needing a second reference to the Codec.
func (r *Registry) Encode(kind string, payload any) ([]byte, error) {
	return r.codec.Encode(kind, payload)
}

// Dispatch decodes data and invokes the handler registered for the given
// action name. Decoding happens unconditionally, even if no handler is
// registered for the action, so a malformed payload is always reported as
// a decode error rather than a missing-handler error.
func (r *Registry) Dispatch(action string, data []byte) ([]byte, error) {
	kind, header, payload, err := r.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	if kind != action {
		return nil, fmt.Errorf("decoded action %q does not match dispatched action %q", kind, action)
	}
	r.mu.RLock()
	h, ok := r.handlers[action]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no handler registered for action %q", action)
	}
	return h(header, payload)
}
