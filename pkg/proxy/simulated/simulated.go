// Package simulated provides an in-memory fake Proxy standing in for a
// peer network service agent, for tests and the nsa-agent lifecycle
// commands.
package simulated

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
)

// Resolver is invoked synchronously right before a simulated operation
// returns successfully, standing in for a real peer's asynchronous
// confirmation arriving over the wire later. It is defined with only
// built-in types so this package never has to import the requester
// package that would resolve it — wiring that resolution is left to
// whatever constructs both (see cmd/nsa-agent), keeping this package's own
// dependency graph acyclic.
type Resolver func(ctx context.Context, connectionID, operation string, err error)

// Proxy is an in-memory fake satisfying proxy.Proxy.
type Proxy struct {
	Latency time.Duration

	mu          sync.Mutex
	failNetwork map[string]bool
	reservations map[string]string // connectionID -> network
	provisioned  map[string]bool
	resolver     Resolver
}

// New returns an empty simulated Proxy.
func New() *Proxy {
	return &Proxy{
		failNetwork:  make(map[string]bool),
		reservations: make(map[string]string),
		provisioned:  make(map[string]bool),
	}
}

// SetResolver installs the hook this Proxy invokes once a simulated
// operation completes successfully. A nil resolver (the default) leaves
// any caller waiting on a matching Future blocked until its own context
// deadline, the same as a peer that never replies.
func (p *Proxy) SetResolver(r Resolver) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolver = r
}

func (p *Proxy) notify(ctx context.Context, connectionID, operation string, err error) {
	p.mu.Lock()
	r := p.resolver
	p.mu.Unlock()
	if r != nil {
		r(ctx, connectionID, operation, err)
	}
}

// FailNetwork configures every request to the named peer network to fail.
func (p *Proxy) FailNetwork(network string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNetwork[network] = true
}

func (p *Proxy) sleep(ctx context.Context) error {
	if p.Latency == 0 {
		return nil
	}
	select {
	case <-time.After(p.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reservation implements proxy.Proxy. On success it notifies the resolver
// under operation key "Reserve" before returning, simulating a peer whose
// ReserveConfirmed arrives instantly.
func (p *Proxy) Reservation(ctx context.Context, network, correlationID, globalReservationID, description, connectionID string, params nsatype.Criteria) error {
	if err := p.sleep(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	if p.failNetwork[network] {
		p.mu.Unlock()
		return &errs.InternalServerError{Cause: fmt.Errorf("simulated peer %s refused reservation %s", network, globalReservationID)}
	}
	p.reservations[connectionID] = network
	p.mu.Unlock()
	p.notify(ctx, connectionID, "Reserve", nil)
	return nil
}

// TerminateReservation implements proxy.Proxy. On success it notifies the
// resolver under operation key "CancelReservation".
func (p *Proxy) TerminateReservation(ctx context.Context, network, correlationID, connectionID string) error {
	if err := p.sleep(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	if _, ok := p.reservations[connectionID]; !ok {
		p.mu.Unlock()
		return &errs.ConnectionNonExistentError{ConnectionID: connectionID}
	}
	delete(p.reservations, connectionID)
	p.mu.Unlock()
	p.notify(ctx, connectionID, "CancelReservation", nil)
	return nil
}

// Provision implements proxy.Proxy. On success it notifies the resolver
// under operation key "Provision".
func (p *Proxy) Provision(ctx context.Context, network, correlationID, connectionID string) (string, error) {
	if err := p.sleep(ctx); err != nil {
		return "", err
	}
	p.mu.Lock()
	if _, ok := p.reservations[connectionID]; !ok {
		p.mu.Unlock()
		return "", &errs.ConnectionNonExistentError{ConnectionID: connectionID}
	}
	p.provisioned[connectionID] = true
	p.mu.Unlock()
	peerConnID, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	p.notify(ctx, connectionID, "Provision", nil)
	return "urn:uuid:" + peerConnID.String(), nil
}

// ReleaseProvision implements proxy.Proxy. On success it notifies the
// resolver under operation key "Release".
func (p *Proxy) ReleaseProvision(ctx context.Context, network, correlationID, connectionID string) (string, error) {
	if err := p.sleep(ctx); err != nil {
		return "", err
	}
	p.mu.Lock()
	if !p.provisioned[connectionID] {
		p.mu.Unlock()
		return "", &errs.ConnectionNonExistentError{ConnectionID: connectionID}
	}
	delete(p.provisioned, connectionID)
	p.mu.Unlock()
	peerResID, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	p.notify(ctx, connectionID, "Release", nil)
	return "urn:uuid:" + peerResID.String(), nil
}
