package nsatype

import (
	"fmt"

	"github.com/google/uuid"
)

// URNUUIDPrefix prefixes a generated correlation ID.
const URNUUIDPrefix = "urn:uuid:"

// Header carries the request/reply envelope metadata common to every NSI
// operation: the two NSA identities involved, the session's security
// attributes, an optional reply-to address, and a correlation ID tying a
// request to its eventual confirmation/failure callback.
type Header struct {
	RequesterNSA, ProviderNSA NSA
	SessionSecurityAttrs      map[string]string
	ReplyTo                   string
	CorrelationID             string
}

// NewHeader builds a Header. When correlationID is empty, one is minted
// using a time-based (version 1) UUID, matching the reference
// implementation's use of uuid.uuid1() so that generated IDs remain
// orderable by creation time.
func NewHeader(requester, provider NSA, sessionSecurityAttrs map[string]string, replyTo, correlationID string) (Header, error) {
	if correlationID == "" {
		id, err := newCorrelationID()
		if err != nil {
			return Header{}, err
		}
		correlationID = id
	}
	return Header{
		RequesterNSA:         requester,
		ProviderNSA:          provider,
		SessionSecurityAttrs: sessionSecurityAttrs,
		ReplyTo:              replyTo,
		CorrelationID:        correlationID,
	}, nil
}

// NewCorrelationID mints a fresh urn:uuid: correlation ID, for callers that
// need to rotate a header's correlation ID between retried requests.
func NewCorrelationID() (string, error) {
	return newCorrelationID()
}

func newCorrelationID() (string, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return "", fmt.Errorf("generating correlation id: %w", err)
	}
	return URNUUIDPrefix + id.String(), nil
}

// String implements fmt.Stringer.
func (h Header) String() string {
	return fmt.Sprintf("<NSIHeader: %s, %s, %s, %s>", h.RequesterNSA, h.ProviderNSA, h.ReplyTo, h.CorrelationID)
}
