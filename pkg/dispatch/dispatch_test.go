package dispatch

import (
	"context"
	"testing"

	"github.com/ogfnsi/nsa-core/pkg/codec"
	"github.com/ogfnsi/nsa-core/pkg/connection"
	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
	"github.com/ogfnsi/nsa-core/pkg/proxy/simulated"
	"github.com/ogfnsi/nsa-core/pkg/registry"
	"github.com/ogfnsi/nsa-core/pkg/requester"
)

// stubCodec treats Decode as a no-op pass-through: the test calls
// reg.Dispatch with an action name and hands the payload straight through
// via a side channel, since no real wire format is in scope here.
type stubCodec struct {
	action  string
	header  nsatype.Header
	payload any
}

func (s *stubCodec) Encode(kind string, payload any) ([]byte, error) {
	return []byte(kind), nil
}

func (s *stubCodec) Decode(data []byte) (string, nsatype.Header, any, error) {
	return s.action, s.header, s.payload, nil
}

func testHeader() nsatype.Header {
	h, err := nsatype.NewHeader(
		nsatype.NewNSA("urn:ogf:network:requester.example", "http://requester.example/nsi", ""),
		nsatype.NewNSA("urn:ogf:network:provider.example", "http://provider.example/nsi", ""),
		nil, "", "",
	)
	if err != nil {
		panic(err)
	}
	return h
}

func TestRegisterProvisionConfirmedDispatches(t *testing.T) {
	reg := registry.New()
	pending := requester.NewPending()
	cb := requester.New(reg, errs.NewErrorRegistry(), pending)

	px := simulated.New()
	sub := connection.NewRemoteSubConnection("peer.example", "conn-1", nsatype.STP{Network: "a", Port: "1"}, nsatype.STP{Network: "b", Port: "2"}, px, pending)
	conn := connection.New(nsatype.NSA{}, "agg-1", nsatype.STP{}, nsatype.STP{}, "RES-1", "", nil, []*connection.SubConnection{sub})
	reg.Put(conn.ConnectionID, conn)
	future := pending.Register(sub.ConnectionID, "Provision")

	codecReg := codec.NewRegistry(&stubCodec{
		action: codec.ActionProvisionConfirmed,
		header: testHeader(),
		payload: ConnectionPayload{ConnectionID: sub.ConnectionID},
	})
	Register(codecReg, cb)

	out, err := codecReg.Dispatch(codec.ActionProvisionConfirmed, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty encoded reply")
	}
	if err := future.Wait(context.Background()); err != nil {
		t.Fatalf("expected future to resolve successfully, got %v", err)
	}
}

func TestRegisterBadPayloadType(t *testing.T) {
	reg := registry.New()
	cb := requester.New(reg, errs.NewErrorRegistry(), requester.NewPending())

	codecReg := codec.NewRegistry(&stubCodec{
		action:  codec.ActionReleaseConfirmed,
		header:  testHeader(),
		payload: "not the right type",
	})
	Register(codecReg, cb)

	if _, err := codecReg.Dispatch(codec.ActionReleaseConfirmed, nil); err == nil {
		t.Fatal("expected an error for a mismatched payload type")
	}
}

func TestRegisterTerminateFailedIsBoundDespiteUpstreamAsymmetry(t *testing.T) {
	reg := registry.New()
	pending := requester.NewPending()
	cb := requester.New(reg, errs.NewErrorRegistry(), pending)

	px := simulated.New()
	sub := connection.NewRemoteSubConnection("peer.example", "conn-2", nsatype.STP{Network: "a", Port: "1"}, nsatype.STP{Network: "b", Port: "2"}, px, pending)
	conn := connection.New(nsatype.NSA{}, "agg-2", nsatype.STP{}, nsatype.STP{}, "RES-2", "", nil, []*connection.SubConnection{sub})
	reg.Put(conn.ConnectionID, conn)
	future := pending.Register(sub.ConnectionID, "Terminate")

	codecReg := codec.NewRegistry(&stubCodec{
		action: codec.ActionTerminateFailed,
		header: testHeader(),
		payload: FailurePayload{ConnectionID: sub.ConnectionID, ErrorID: "00999", Text: "peer fault"},
	})
	Register(codecReg, cb)

	if _, err := codecReg.Dispatch(codec.ActionTerminateFailed, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := future.Wait(context.Background()); err == nil {
		t.Fatal("expected future to resolve with an error")
	}
}
