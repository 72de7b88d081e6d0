package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogfnsi/nsa-core/pkg/audit"
	"github.com/ogfnsi/nsa-core/pkg/cli"
	"github.com/ogfnsi/nsa-core/pkg/connection"
	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/label"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
	"github.com/ogfnsi/nsa-core/pkg/registry"
	"github.com/ogfnsi/nsa-core/pkg/statemachine"
	"github.com/ogfnsi/nsa-core/pkg/util"
)

// connectionSnapshot is the DTO persisted to app.store: just enough to
// report a connection's last known state after a process restart, since
// a Connection's live backend/proxy bindings aren't themselves
// serializable.
type connectionSnapshot struct {
	ConnectionID        string `json:"connection_id"`
	State               string `json:"state"`
	GlobalReservationID string `json:"global_reservation_id,omitempty"`
	Description         string `json:"description,omitempty"`
}

// reserveFlags holds the service-definition fields nsa-agent reserve
// accepts; every other lifecycle verb only needs the connection ID
// already in the registry.
type reserveFlags struct {
	srcNetwork, srcPort string
	dstNetwork, dstPort string
	vlanSrc, vlanDst    int
	capacity            uint64
	mtu, burstSize       uint32
	directionality      string
	symmetric           bool
	description         string
	globalReservationID string
	remoteNetworks      []string
}

var reserveArgs reserveFlags

var reserveCmd = &cobra.Command{
	Use:   "reserve <connection-id>",
	Short: "Reserve a new connection against the local simulated backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		connectionID := args[0]
		if _, exists := app.registry.Get(connectionID); exists {
			return fmt.Errorf("connection %s already exists", connectionID)
		}

		srcLabel, err := label.New(label.EthernetVLANType, []label.Range{{Lo: reserveArgs.vlanSrc, Hi: reserveArgs.vlanSrc}})
		if err != nil {
			return err
		}
		dstLabel, err := label.New(label.EthernetVLANType, []label.Range{{Lo: reserveArgs.vlanDst, Hi: reserveArgs.vlanDst}})
		if err != nil {
			return err
		}
		src := nsatype.STP{Network: reserveArgs.srcNetwork, Port: reserveArgs.srcPort, Labels: []*label.Label{srcLabel}}
		dst := nsatype.STP{Network: reserveArgs.dstNetwork, Port: reserveArgs.dstPort, Labels: []*label.Label{dstLabel}}

		svc, err := nsatype.NewEthernetVLANService(src, dst, reserveArgs.capacity, reserveArgs.mtu, reserveArgs.burstSize,
			reserveArgs.directionality, reserveArgs.symmetric, nil)
		if err != nil {
			return err
		}
		criteria := nsatype.Criteria{ServiceDef: svc}

		remotes, err := remoteSubConnections(connectionID, src, dst, reserveArgs.remoteNetworks)
		if err != nil {
			return err
		}

		local := connection.NewLocalSubConnection(src.Port, dst.Port, src, dst, app.backend)
		requesterNSA := nsatype.NewNSA(app.settings.NSAIdentity, app.settings.NSAEndpoint, "")
		conn := connection.New(requesterNSA, connectionID, src, dst, reserveArgs.globalReservationID, reserveArgs.description, local, remotes)

		return runLifecycle(cmd.Context(), connectionID, conn, audit.OperationReserve, func(ctx context.Context) error {
			app.registry.Put(connectionID, conn)
			return conn.Reserve(ctx, criteria)
		})
	},
}

var provisionCmd = &cobra.Command{
	Use:   "provision <connection-id>",
	Short: "Provision an already-reserved connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExistingConnection(cmd, args[0], audit.OperationProvision, func(ctx context.Context, conn *connection.Connection) error {
			return conn.Provision(ctx)
		})
	},
}

var releaseCmd = &cobra.Command{
	Use:   "release <connection-id>",
	Short: "Release a provisioned connection back to reserved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExistingConnection(cmd, args[0], audit.OperationReleaseProvision, func(ctx context.Context, conn *connection.Connection) error {
			return conn.ReleaseProvision(ctx)
		})
	},
}

var terminateCmd = &cobra.Command{
	Use:   "terminate <connection-id>",
	Short: "Terminate a reserved or provisioned connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExistingConnection(cmd, args[0], audit.OperationTerminate, func(ctx context.Context, conn *connection.Connection) error {
			return conn.Terminate(ctx)
		})
	},
}

// remoteSubConnections builds one remote sub-connection per network name
// in networks, each driven by the shared simulated proxy. A network must
// appear in the configured peer list — there's no point dialing a peer
// this agent doesn't know how to reach.
func remoteSubConnections(connectionID string, src, dst nsatype.STP, networks []string) ([]*connection.SubConnection, error) {
	if len(networks) == 0 {
		return nil, nil
	}
	remotes := make([]*connection.SubConnection, 0, len(networks))
	for _, network := range networks {
		if !knownPeer(network) {
			return nil, fmt.Errorf("peer network %q is not in the configured peer list", network)
		}
		// Each leg needs its own wire-level connection ID: Pending keys a
		// Future by (connection ID, operation), so two remote legs sharing
		// connectionID would clobber each other's registered Future when
		// fanOut drives them concurrently.
		legID := connectionID + "-" + network
		remotes = append(remotes, connection.NewRemoteSubConnection(network, legID, src, dst, app.proxy, app.pending))
	}
	return remotes, nil
}

func knownPeer(network string) bool {
	for _, peer := range app.peers {
		if peer.Identity == network {
			return true
		}
	}
	return false
}

func withExistingConnection(cmd *cobra.Command, connectionID string, op audit.Operation, step func(context.Context, *connection.Connection) error) error {
	conn, ok := app.registry.Get(connectionID)
	if !ok {
		return fmt.Errorf("no connection %s in the registry", connectionID)
	}
	return runLifecycle(cmd.Context(), connectionID, conn, op, step)
}

// runLifecycle prints the before/after state for conn, runs step, and
// audits the outcome — the "validate, preview/execute, audit" shape every
// lifecycle verb shares.
func runLifecycle(ctx context.Context, connectionID string, conn *connection.Connection, op audit.Operation, step func(context.Context) error) error {
	before := conn.State()
	start := time.Now()
	stepErr := step(ctx)
	duration := time.Since(start)
	after := conn.State()

	event := audit.NewEvent(app.settings.NSAIdentity, connectionID, op).WithDuration(duration)
	if stepErr != nil {
		event.WithError(stepErr)
		var aggErr *errs.AggregationError
		if errors.As(stepErr, &aggErr) && aggErr.Partial {
			// some children completed the transition; this needs operator
			// attention rather than a blanket "everything failed" alert.
			event.WithWarning()
		}
	} else {
		event.WithSuccess()
	}
	if err := audit.Log(event); err != nil {
		util.WithConnection(connectionID).Warnf("audit log write failed: %v", err)
	}

	if after == statemachine.StateTerminated {
		if err := app.store.Delete(ctx, connectionID); err != nil {
			util.WithConnection(connectionID).Warnf("store delete failed: %v", err)
		}
		app.registry.Release(connectionID)
	} else {
		saveSnapshot(ctx, connectionID, conn)
	}

	if stepErr != nil {
		fmt.Printf("%s: %s -> %s FAILED: %v\n", connectionID, before, after, stepErr)
		return stepErr
	}

	fmt.Printf("%s: %s%s%s\n", connectionID, cli.Green(before.String()), cli.Dim(" -> "), cli.Green(after.String()))
	return nil
}

func saveSnapshot(ctx context.Context, connectionID string, conn *connection.Connection) {
	payload, err := json.Marshal(connectionSnapshot{
		ConnectionID:        connectionID,
		State:               conn.State().String(),
		GlobalReservationID: conn.GlobalReservationID,
		Description:         conn.Description,
	})
	if err != nil {
		util.WithConnection(connectionID).Warnf("marshaling snapshot: %v", err)
		return
	}
	if err := app.store.Save(ctx, registry.Snapshot{ConnectionID: connectionID, Payload: payload}); err != nil {
		util.WithConnection(connectionID).Warnf("store save failed: %v", err)
	}
}

func init() {
	reserveCmd.Flags().StringVar(&reserveArgs.srcNetwork, "src-network", "", "Source network URN")
	reserveCmd.Flags().StringVar(&reserveArgs.srcPort, "src-port", "", "Source port")
	reserveCmd.Flags().StringVar(&reserveArgs.dstNetwork, "dst-network", "", "Destination network URN")
	reserveCmd.Flags().StringVar(&reserveArgs.dstPort, "dst-port", "", "Destination port")
	reserveCmd.Flags().IntVar(&reserveArgs.vlanSrc, "vlan-src", 0, "Source VLAN tag")
	reserveCmd.Flags().IntVar(&reserveArgs.vlanDst, "vlan-dst", 0, "Destination VLAN tag")
	reserveCmd.Flags().Uint64Var(&reserveArgs.capacity, "capacity", 1_000_000_000, "Requested capacity (bits/sec)")
	reserveCmd.Flags().Uint32Var(&reserveArgs.mtu, "mtu", 1500, "MTU (bytes)")
	reserveCmd.Flags().Uint32Var(&reserveArgs.burstSize, "burst-size", 0, "Burst size (bytes)")
	reserveCmd.Flags().StringVar(&reserveArgs.directionality, "directionality", nsatype.Bidirectional, "Bidirectional or Unidirectional")
	reserveCmd.Flags().BoolVar(&reserveArgs.symmetric, "symmetric", true, "Symmetric path")
	reserveCmd.Flags().StringVar(&reserveArgs.description, "description", "", "Reservation description")
	reserveCmd.Flags().StringVar(&reserveArgs.globalReservationID, "global-reservation-id", "", "Requester-assigned global reservation ID")
	reserveCmd.Flags().StringSliceVar(&reserveArgs.remoteNetworks, "remote", nil, "Peer network(s) to fan this reservation out to, in addition to the local segment")
	reserveCmd.MarkFlagRequired("src-network")
	reserveCmd.MarkFlagRequired("src-port")
	reserveCmd.MarkFlagRequired("dst-network")
	reserveCmd.MarkFlagRequired("dst-port")
}
