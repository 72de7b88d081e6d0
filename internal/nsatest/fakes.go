package nsatest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ogfnsi/nsa-core/pkg/backend"
	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
	"github.com/ogfnsi/nsa-core/pkg/proxy"
	"github.com/ogfnsi/nsa-core/pkg/requester"
)

// FakeBackend is a minimal in-memory backend.Backend for package tests
// that need a local sub-connection without pulling in pkg/backend/simulated's
// full network-failure-simulation surface.
type FakeBackend struct {
	mu          sync.Mutex
	reservations map[string]bool
	connections  map[string]bool
	FailReserve  bool
}

// NewFakeBackend returns an empty FakeBackend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		reservations: make(map[string]bool),
		connections:  make(map[string]bool),
	}
}

func (b *FakeBackend) Reserve(ctx context.Context, srcEndpoint, dstEndpoint string, params nsatype.Criteria) (string, error) {
	if b.FailReserve {
		return "", &errs.InternalServerError{Cause: fmt.Errorf("fake backend configured to fail reservations")}
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	resID := "urn:uuid:" + id.String()
	b.mu.Lock()
	b.reservations[resID] = true
	b.mu.Unlock()
	return resID, nil
}

func (b *FakeBackend) CancelReservation(ctx context.Context, reservationID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.reservations[reservationID] {
		return &errs.ConnectionNonExistentError{ConnectionID: reservationID}
	}
	delete(b.reservations, reservationID)
	return nil
}

func (b *FakeBackend) Provision(ctx context.Context, reservationID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.reservations[reservationID] {
		return "", &errs.ConnectionNonExistentError{ConnectionID: reservationID}
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	connID := "urn:uuid:" + id.String()
	b.connections[connID] = true
	return connID, nil
}

func (b *FakeBackend) ReleaseProvision(ctx context.Context, connectionID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connections[connectionID] {
		return "", &errs.ConnectionNonExistentError{ConnectionID: connectionID}
	}
	delete(b.connections, connectionID)
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return "urn:uuid:" + id.String(), nil
}

var _ backend.Backend = (*FakeBackend)(nil)

// FakeProxy is a proxy.Proxy that models the real asynchronous round trip
// a SOAP transport would have: each call registers a requester.Future with
// a Pending table and resolves it from a separate goroutine after Delay,
// rather than returning its result inline the way pkg/proxy/simulated
// does. Exercises the requester callback surface's Future/Pending bridge
// end to end without a real transport.
type FakeProxy struct {
	Delay   time.Duration
	pending *requester.Pending

	mu          sync.Mutex
	failNetwork map[string]bool
}

// NewFakeProxy returns a FakeProxy resolving every call through pending
// after delay.
func NewFakeProxy(pending *requester.Pending, delay time.Duration) *FakeProxy {
	return &FakeProxy{Delay: delay, pending: pending, failNetwork: make(map[string]bool)}
}

// FailNetwork configures every subsequent call against network to resolve
// with an error.
func (p *FakeProxy) FailNetwork(network string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNetwork[network] = true
}

func (p *FakeProxy) shouldFail(network string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failNetwork[network]
}

func (p *FakeProxy) roundTrip(ctx context.Context, network, connectionID, operation string, resolve func() error) error {
	future := p.pending.Register(connectionID, operation)
	go func() {
		time.Sleep(p.Delay)
		if p.shouldFail(network) {
			p.pending.Resolve(connectionID, operation, &errs.InternalServerError{
				Cause: fmt.Errorf("fake proxy: peer %s refused %s for %s", network, operation, connectionID),
			})
			return
		}
		p.pending.Resolve(connectionID, operation, resolve())
	}()
	return future.Wait(ctx)
}

func (p *FakeProxy) Reservation(ctx context.Context, network, correlationID, globalReservationID, description, connectionID string, params nsatype.Criteria) error {
	return p.roundTrip(ctx, network, connectionID, "Reserve", func() error { return nil })
}

func (p *FakeProxy) TerminateReservation(ctx context.Context, network, correlationID, connectionID string) error {
	return p.roundTrip(ctx, network, connectionID, "CancelReservation", func() error { return nil })
}

func (p *FakeProxy) Provision(ctx context.Context, network, correlationID, connectionID string) (string, error) {
	err := p.roundTrip(ctx, network, connectionID, "Provision", func() error { return nil })
	return connectionID, err
}

func (p *FakeProxy) ReleaseProvision(ctx context.Context, network, correlationID, connectionID string) (string, error) {
	var resID string
	err := p.roundTrip(ctx, network, connectionID, "Release", func() error {
		id, uErr := uuid.NewRandom()
		if uErr != nil {
			return uErr
		}
		resID = "urn:uuid:" + id.String()
		return nil
	})
	return resID, err
}

var _ proxy.Proxy = (*FakeProxy)(nil)
