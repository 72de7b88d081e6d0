// Package backend declares the narrow interface a local hardware
// data-plane driver implements. No concrete driver lives here —
// that is explicitly out of scope; this package exists only as the
// pluggable boundary pkg/connection's local sub-connections call through.
package backend

import (
	"context"

	"github.com/ogfnsi/nsa-core/pkg/nsatype"
)

// Backend provisions and releases circuits on a local data plane. Every
// method is synchronous in its own right, but the core always invokes
// these from a goroutine and joins on the result — a slow or blocking
// implementation never stalls a sibling sub-connection's fan-out.
type Backend interface {
	// Reserve allocates resources between the two endpoints for the given
	// criteria, returning an opaque reservation ID.
	Reserve(ctx context.Context, srcEndpoint, dstEndpoint string, params nsatype.Criteria) (reservationID string, err error)

	// CancelReservation releases a reservation that was never provisioned.
	CancelReservation(ctx context.Context, reservationID string) error

	// Provision activates a reservation, returning the connection ID that
	// now identifies the live circuit.
	Provision(ctx context.Context, reservationID string) (connectionID string, err error)

	// ReleaseProvision deactivates a live circuit, returning it to the
	// reserved-but-not-provisioned state and yielding back its reservation ID.
	ReleaseProvision(ctx context.Context, connectionID string) (reservationID string, err error)
}
