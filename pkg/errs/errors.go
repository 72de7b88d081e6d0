// Package errs defines the connection-service error taxonomy: sentinel
// errors for errors.Is matching, structured types carrying the detail a
// caller or the wire codec needs, and a registry for mapping peer-supplied
// wire error IDs back onto one of these kinds.
package errs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ogfnsi/nsa-core/pkg/statemachine"
)

// Sentinel errors. Structured types below Unwrap to one of these so callers
// can branch with errors.Is without caring about the concrete type.
var (
	ErrConnectionStateTransition = errors.New("illegal connection state transition")
	ErrPayload                   = errors.New("malformed payload")
	ErrEmptyLabelSet             = errors.New("label set intersection is empty")
	ErrReserve                   = errors.New("reservation failed")
	ErrProvision                 = errors.New("provision failed")
	ErrRelease                   = errors.New("release failed")
	ErrCancelReservation         = errors.New("cancel reservation failed")
	ErrTerminate                 = errors.New("terminate failed")
	ErrConnectionNonExistent     = errors.New("connection does not exist")
	ErrConnectionGone            = errors.New("connection already terminated")
	ErrInternalServer            = errors.New("internal server error")
)

// ConnectionStateTransitionError reports an attempted transition that the
// state machine's legal-transition table does not permit.
type ConnectionStateTransitionError struct {
	From, To statemachine.State
}

func (e *ConnectionStateTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

func (e *ConnectionStateTransitionError) Unwrap() error { return ErrConnectionStateTransition }

// WireID returns the stable wire-error identifier for the codec boundary.
func (e *ConnectionStateTransitionError) WireID() string { return "00200" }

// FromTransitionError converts a *statemachine.TransitionError (the bare
// type pkg/statemachine returns to avoid importing this package) into a
// *ConnectionStateTransitionError, so every illegal local transition maps to
// the same stable wire ID and sentinel as everything else in this taxonomy.
// Any other error, including nil, passes through unchanged.
func FromTransitionError(err error) error {
	var te *statemachine.TransitionError
	if errors.As(err, &te) {
		return &ConnectionStateTransitionError{From: te.From, To: te.To}
	}
	return err
}

// PayloadError reports a malformed request or response payload.
type PayloadError struct {
	Detail string
}

func (e *PayloadError) Error() string  { return "malformed payload: " + e.Detail }
func (e *PayloadError) Unwrap() error { return ErrPayload }
func (e *PayloadError) WireID() string { return "00700" }

// EmptyLabelSetError reports that intersecting two label sets of the given
// type left nothing in common.
type EmptyLabelSetError struct {
	Type string
}

func (e *EmptyLabelSetError) Error() string {
	return fmt.Sprintf("empty label set for type %q after intersection", e.Type)
}

func (e *EmptyLabelSetError) Unwrap() error { return ErrEmptyLabelSet }
func (e *EmptyLabelSetError) WireID() string { return "00701" }

var opSentinels = map[string]error{
	"Reserve":           ErrReserve,
	"Provision":         ErrProvision,
	"Release":           ErrRelease,
	"CancelReservation": ErrCancelReservation,
	"Terminate":         ErrTerminate,
}

// AggregationError reports that a fan-out across a connection's
// sub-connections did not fully succeed. Partial distinguishes a mixed
// result (some children succeeded, some failed — requiring operator
// attention) from a clean, uniform failure.
type AggregationError struct {
	Op          string
	Partial     bool
	ChildErrors []string
}

func (e *AggregationError) Error() string {
	msg := fmt.Sprintf("%s: %d of its children failed", e.Op, len(e.ChildErrors))
	if e.Partial {
		msg += " (partial failure, may require manual cleanup)"
	}
	if len(e.ChildErrors) > 0 {
		msg += ": " + strings.Join(e.ChildErrors, "; ")
	}
	return msg
}

var opWireIDs = map[string]string{
	"Reserve":           "00301",
	"Provision":         "00302",
	"Release":           "00303",
	"CancelReservation": "00304",
	"Terminate":         "00305",
}

// WireID returns the stable wire-error identifier for the codec boundary.
func (e *AggregationError) WireID() string {
	if id, ok := opWireIDs[e.Op]; ok {
		return id
	}
	return "00999"
}

func (e *AggregationError) Unwrap() error {
	if sentinel, ok := opSentinels[e.Op]; ok {
		return sentinel
	}
	return ErrInternalServer
}

// NewAggregationError builds an AggregationError for the named operation
// ("Reserve", "Provision", "Release", "CancelReservation", "Terminate").
func NewAggregationError(op string, partial bool, childErrs []string) error {
	return &AggregationError{Op: op, Partial: partial, ChildErrors: childErrs}
}

// ConnectionNonExistentError reports a lookup against an unknown connection ID.
type ConnectionNonExistentError struct {
	ConnectionID string
}

func (e *ConnectionNonExistentError) Error() string {
	return fmt.Sprintf("connection %q does not exist", e.ConnectionID)
}

func (e *ConnectionNonExistentError) Unwrap() error { return ErrConnectionNonExistent }
func (e *ConnectionNonExistentError) WireID() string { return "00104" }

// ConnectionGoneError reports an operation attempted against a connection
// that has already reached a terminal state.
type ConnectionGoneError struct {
	ConnectionID string
}

func (e *ConnectionGoneError) Error() string {
	return fmt.Sprintf("connection %q is already terminated", e.ConnectionID)
}

func (e *ConnectionGoneError) Unwrap() error { return ErrConnectionGone }
func (e *ConnectionGoneError) WireID() string { return "00105" }

// InternalServerError wraps an unexpected failure that does not fit any
// other kind.
type InternalServerError struct {
	Cause error
}

func (e *InternalServerError) Error() string {
	if e.Cause == nil {
		return "internal server error"
	}
	return "internal server error: " + e.Cause.Error()
}

func (e *InternalServerError) Unwrap() error { return ErrInternalServer }
func (e *InternalServerError) WireID() string { return "00999" }

// ValidationBuilder accumulates validation failures for a batch check,
// e.g. verifying a Criteria before a reservation is attempted.
type ValidationBuilder struct {
	errors []string
}

// Add records message if condition is false.
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddErrorf records a formatted message unconditionally.
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors reports whether any message has been recorded.
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns a PayloadError joining all recorded messages, or nil.
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &PayloadError{Detail: strings.Join(v.errors, "; ")}
}

// ErrorRegistry maps peer-supplied wire error IDs to one of this package's
// structured kinds, so inbound SOAP faults can be reasoned about the same
// way as locally-raised errors.
type ErrorRegistry struct {
	kinds map[string]func(text string) error
}

// NewErrorRegistry builds a registry pre-populated with the well-known NSI
// error IDs.
func NewErrorRegistry() *ErrorRegistry {
	r := &ErrorRegistry{kinds: make(map[string]func(text string) error)}
	r.Register("00700", func(text string) error { return &PayloadError{Detail: text} })
	r.Register("00701", func(text string) error { return &EmptyLabelSetError{Type: text} })
	r.Register("00104", func(text string) error { return &ConnectionNonExistentError{ConnectionID: text} })
	r.Register("00105", func(text string) error { return &ConnectionGoneError{ConnectionID: text} })
	return r
}

// Register associates a wire error ID with a constructor for the kind it
// denotes. The constructor receives the fault's free-text detail.
func (r *ErrorRegistry) Register(wireID string, build func(text string) error) {
	r.kinds[wireID] = build
}

// Lookup resolves a wire error ID plus free-text detail into a structured
// error. Unknown IDs collapse to a generic InternalServerError rather than
// failing the lookup itself.
func (r *ErrorRegistry) Lookup(wireID, text string) error {
	if build, ok := r.kinds[wireID]; ok {
		return build(text)
	}
	return &InternalServerError{Cause: fmt.Errorf("unrecognized wire error %s: %s", wireID, text)}
}
