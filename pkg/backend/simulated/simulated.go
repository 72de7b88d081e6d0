// Package simulated provides an in-memory fake Backend for tests and the
// nsa-agent lifecycle commands, with per-endpoint-pair accept/fail
// configuration and injectable latency — the Go-module analog of OpenNSA's
// own "dud backend" test double.
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

// Backend is an in-memory fake satisfying backend.Backend. A Backend from
// New accepts every reservation with no injected latency; the zero value
// has nil maps and is not usable.
type Backend struct {
	// Latency, if set, is slept through before every call returns.
	Latency time.Duration

	mu       sync.Mutex
	failPair map[string]bool
	reserved map[string]reservation
	provisioned map[string]string // connectionID -> reservationID
}

type reservation struct {
	srcEndpoint, dstEndpoint string
	params                   nsatype.Criteria
}

// New returns an empty simulated Backend.
func New() *Backend {
	return &Backend{
		failPair:    make(map[string]bool),
		reserved:    make(map[string]reservation),
		provisioned: make(map[string]string),
	}
}

// FailPair configures the backend to fail every Reserve call between the
// given endpoint pair.
func (b *Backend) FailPair(srcEndpoint, dstEndpoint string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failPair[pairKey(srcEndpoint, dstEndpoint)] = true
}

func pairKey(src, dst string) string {
	return src + "->" + dst
}

func (b *Backend) sleep(ctx context.Context) error {
	if b.Latency == 0 {
		return nil
	}
	select {
	case <-time.After(b.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reserve implements backend.Backend.
func (b *Backend) Reserve(ctx context.Context, srcEndpoint, dstEndpoint string, params nsatype.Criteria) (string, error) {
	if err := b.sleep(ctx); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPair[pairKey(srcEndpoint, dstEndpoint)] {
		return "", &errs.InternalServerError{Cause: fmt.Errorf("simulated backend: no path between %s and %s", srcEndpoint, dstEndpoint)}
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	reservationID := "res-" + id.String()
	b.reserved[reservationID] = reservation{srcEndpoint: srcEndpoint, dstEndpoint: dstEndpoint, params: params}
	return reservationID, nil
}

// CancelReservation implements backend.Backend.
func (b *Backend) CancelReservation(ctx context.Context, reservationID string) error {
	if err := b.sleep(ctx); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.reserved[reservationID]; !ok {
		return &errs.ConnectionNonExistentError{ConnectionID: reservationID}
	}
	delete(b.reserved, reservationID)
	return nil
}

// Provision implements backend.Backend.
func (b *Backend) Provision(ctx context.Context, reservationID string) (string, error) {
	if err := b.sleep(ctx); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.reserved[reservationID]; !ok {
		return "", &errs.ConnectionNonExistentError{ConnectionID: reservationID}
	}
	connectionID := "conn-" + reservationID[len("res-"):]
	b.provisioned[connectionID] = reservationID
	return connectionID, nil
}

// ReleaseProvision implements backend.Backend.
func (b *Backend) ReleaseProvision(ctx context.Context, connectionID string) (string, error) {
	if err := b.sleep(ctx); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	reservationID, ok := b.provisioned[connectionID]
	if !ok {
		return "", &errs.ConnectionNonExistentError{ConnectionID: connectionID}
	}
	delete(b.provisioned, connectionID)
	return reservationID, nil
}
