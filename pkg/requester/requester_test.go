package requester

import (
	"context"
	"errors"
	"testing"

	"github.com/ogfnsi/nsa-core/pkg/connection"
	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
	"github.com/ogfnsi/nsa-core/pkg/proxy/simulated"
	"github.com/ogfnsi/nsa-core/pkg/registry"
)

func testHeader() nsatype.Header {
	h, err := nsatype.NewHeader(
		nsatype.NewNSA("urn:ogf:network:requester.example", "http://requester.example/nsi", "application/vnd.org.ogf.nsi.cs.v2+soap"),
		nsatype.NewNSA("urn:ogf:network:provider.example", "http://provider.example/nsi", "application/vnd.org.ogf.nsi.cs.v2+soap"),
		nil, "", "",
	)
	if err != nil {
		panic(err)
	}
	return h
}

func newTestCallbacks() (*Callbacks, *registry.Registry, *Pending) {
	reg := registry.New()
	pending := NewPending()
	return New(reg, errs.NewErrorRegistry(), pending), reg, pending
}

func stp(network, port string) nsatype.STP {
	return nsatype.STP{Network: network, Port: port}
}

func remoteConn(connectionID string, pending *Pending) (*connection.Connection, *connection.SubConnection) {
	px := simulated.New()
	sub := connection.NewRemoteSubConnection("peer.example", connectionID, stp("local.example", "A"), stp("peer.example", "B"), px, pending)
	conn := connection.New(
		nsatype.NewNSA("urn:ogf:network:requester.example", "http://requester.example/nsi", ""),
		"agg-"+connectionID, stp("local.example", "A"), stp("peer.example", "B"),
		"RES-1", "test connection", nil, []*connection.SubConnection{sub},
	)
	return conn, sub
}

func TestReserveConfirmedResolvesPending(t *testing.T) {
	cb, reg, pending := newTestCallbacks()
	conn, sub := remoteConn("conn-1", pending)
	reg.Put(conn.ConnectionID, conn)

	future := pending.Register(sub.ConnectionID, "Reserve")

	ack, err := cb.ReserveConfirmed(context.Background(), testHeader(), sub.ConnectionID, "RES-1", "test", 0,
		stp("local.example", "A"), stp("peer.example", "B"), 100, 200, 1000000000, 1500, 0, nsatype.Bidirectional, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.CorrelationID == "" {
		t.Fatal("expected non-empty correlation id in ack")
	}

	if err := future.Wait(context.Background()); err != nil {
		t.Fatalf("expected future to resolve successfully, got %v", err)
	}
}

func TestReserveFailedResolvesPendingWithMappedError(t *testing.T) {
	cb, reg, pending := newTestCallbacks()
	conn, sub := remoteConn("conn-2", pending)
	reg.Put(conn.ConnectionID, conn)

	future := pending.Register(sub.ConnectionID, "Reserve")

	if _, err := cb.ReserveFailed(context.Background(), testHeader(), sub.ConnectionID, "00701", "vlan set exhausted"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := future.Wait(context.Background())
	if err == nil {
		t.Fatal("expected future to resolve with an error")
	}
	var emptySet *errs.EmptyLabelSetError
	if !errors.As(err, &emptySet) {
		t.Fatalf("expected EmptyLabelSetError, got %T: %v", err, err)
	}
}

func TestCallbackUnknownConnectionID(t *testing.T) {
	cb, _, _ := newTestCallbacks()

	_, err := cb.ProvisionConfirmed(context.Background(), testHeader(), "conn-nonexistent")
	if err == nil {
		t.Fatal("expected an error for an unknown connection id")
	}
	var nonExistent *errs.ConnectionNonExistentError
	if !errors.As(err, &nonExistent) {
		t.Fatalf("expected ConnectionNonExistentError, got %T: %v", err, err)
	}
}

func TestCallbackTerminatedConnectionIsGone(t *testing.T) {
	cb, reg, pending := newTestCallbacks()
	conn, sub := remoteConn("conn-3", pending)
	reg.Put(conn.ConnectionID, conn)

	// Criteria with no service definition fail on every leg, which leaves
	// the aggregate Terminated.
	if err := conn.Reserve(context.Background(), nsatype.Criteria{}); err == nil {
		t.Fatal("expected the reservation to fail")
	}

	_, err := cb.TerminateConfirmed(context.Background(), testHeader(), sub.ConnectionID)
	if err == nil {
		t.Fatal("expected an error for a connection already terminated")
	}
	var gone *errs.ConnectionGoneError
	if !errors.As(err, &gone) {
		t.Fatalf("expected ConnectionGoneError, got %T: %v", err, err)
	}
}

func TestCallbackArrivesForNothingPending(t *testing.T) {
	cb, reg, pending := newTestCallbacks()
	conn, sub := remoteConn("conn-4", pending)
	reg.Put(conn.ConnectionID, conn)

	// No Future registered for this connection/operation pair; resolve
	// should be a logged no-op rather than a panic or error.
	if _, err := cb.ProvisionConfirmed(context.Background(), testHeader(), sub.ConnectionID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReserveTimeoutResolvesPendingWithError(t *testing.T) {
	cb, reg, pending := newTestCallbacks()
	conn, sub := remoteConn("conn-5", pending)
	reg.Put(conn.ConnectionID, conn)

	future := pending.Register(sub.ConnectionID, "Reserve")

	if _, err := cb.ReserveTimeout(context.Background(), testHeader(), sub.ConnectionID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := future.Wait(context.Background()); err == nil {
		t.Fatal("expected future to resolve with a timeout error")
	}
}

func TestNotificationsAreAcknowledgedWithoutPendingLookup(t *testing.T) {
	cb, _, _ := newTestCallbacks()

	if _, err := cb.DataPlaneStateChange(context.Background(), testHeader(), "conn-whatever", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cb.MessageDeliveryTimeout(context.Background(), testHeader(), "conn-whatever", "urn:uuid:corr"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cb.QuerySummaryConfirmed(context.Background(), testHeader(), []string{"conn-a", "conn-b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
