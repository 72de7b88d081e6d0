package jsoncodec

import (
	"testing"

	"github.com/ogfnsi/nsa-core/pkg/dispatch"
)

func TestEncodeDecodeConnectionPayload(t *testing.T) {
	c := New()

	data, err := c.Encode(actionProvisionConfirmed, dispatch.ConnectionPayload{ConnectionID: "conn-1"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	kind, _, payload, err := c.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if kind != actionProvisionConfirmed {
		t.Errorf("expected kind %q, got %q", actionProvisionConfirmed, kind)
	}
	p, ok := payload.(dispatch.ConnectionPayload)
	if !ok {
		t.Fatalf("expected ConnectionPayload, got %T", payload)
	}
	if p.ConnectionID != "conn-1" {
		t.Errorf("expected connection id conn-1, got %q", p.ConnectionID)
	}
}

func TestDecodeReserveConfirmedPayload(t *testing.T) {
	c := New()
	env := `{"kind":"RESERVE_CONFIRMED","header":{"CorrelationID":"urn:uuid:test"},"payload":{"ConnectionID":"conn-2","SourceVLAN":100,"DestVLAN":200,"Capacity":1000000}}`

	kind, header, payload, err := c.Decode([]byte(env))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if kind != actionReserveConfirmed {
		t.Errorf("expected kind %q, got %q", actionReserveConfirmed, kind)
	}
	if header.CorrelationID != "urn:uuid:test" {
		t.Errorf("expected correlation id to round-trip, got %q", header.CorrelationID)
	}
	p, ok := payload.(dispatch.ReserveConfirmedPayload)
	if !ok {
		t.Fatalf("expected ReserveConfirmedPayload, got %T", payload)
	}
	if p.SourceVLAN != 100 || p.DestVLAN != 200 {
		t.Errorf("unexpected VLAN fields: %+v", p)
	}
}

func TestDecodeUnknownAction(t *testing.T) {
	c := New()
	_, _, _, err := c.Decode([]byte(`{"kind":"NOT_A_REAL_ACTION","payload":{}}`))
	if err == nil {
		t.Fatal("expected an error for an unknown action")
	}
}

func TestDecodeMalformedEnvelope(t *testing.T) {
	c := New()
	_, _, _, err := c.Decode([]byte(`not json`))
	if err == nil {
		t.Fatal("expected an error for a malformed envelope")
	}
}
