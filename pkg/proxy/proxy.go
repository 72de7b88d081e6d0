// Package proxy declares the interface a remote sub-connection uses to
// drive an NSI operation against a peer network service agent. No
// concrete SOAP transport lives here — that is explicitly out of scope;
// this package is the pluggable boundary pkg/connection's remote
// sub-connections call through.
package proxy

import (
	"context"

	"github.com/ogfnsi/nsa-core/pkg/nsatype"
)

// Proxy drives the four lifecycle operations against a peer NSA on behalf
// of a remote sub-connection.
type Proxy interface {
	// Reservation requests a reservation on the named peer network,
	// passing through the parent's global reservation ID and description
	// alongside service parameters restricted to this sub-connection's
	// endpoints.
	Reservation(ctx context.Context, network, correlationID, globalReservationID, description, connectionID string, params nsatype.Criteria) error

	// TerminateReservation cancels an outstanding (not yet provisioned)
	// reservation on the peer.
	TerminateReservation(ctx context.Context, network, correlationID, connectionID string) error

	// Provision requests activation of an existing reservation, returning
	// the peer's connection ID.
	Provision(ctx context.Context, network, correlationID, connectionID string) (string, error)

	// ReleaseProvision requests deactivation of a live connection,
	// returning the peer's reservation ID.
	ReleaseProvision(ctx context.Context, network, correlationID, connectionID string) (string, error)
}
