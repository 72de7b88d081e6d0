package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ogfnsi/nsa-core/pkg/cli"
)

var showCmd = &cobra.Command{
	Use:   "show <connection-id>",
	Short: "Show a connection's state and sub-connections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		connectionID := args[0]
		conn, ok := app.registry.Get(connectionID)
		if !ok {
			return showFromStore(cmd, connectionID)
		}

		fmt.Printf("Connection %s\n", cli.Bold(connectionID))
		fmt.Printf("  Requester:  %s\n", conn.RequesterNSA)
		fmt.Printf("  State:      %s\n", stateColor(conn.State().String()))
		fmt.Printf("  Global res: %s\n", conn.GlobalReservationID)
		fmt.Printf("  Path:       %s -> %s\n\n", conn.SourceSTP, conn.DestSTP)

		table := cli.NewTable("KIND", "NETWORK", "CONNECTION ID", "STATE")
		for _, sub := range conn.Children() {
			network := sub.Network
			if network == "" {
				network = "(local)"
			}
			table.Row(sub.Kind.String(), network, sub.ConnectionID, stateColor(sub.State().String()))
		}
		table.Flush()
		return nil
	},
}

// showFromStore falls back to the persisted snapshot for a connection
// this process no longer holds live in its registry (e.g. after a
// restart) — it reports last known state only, since the snapshot
// carries no sub-connection detail.
func showFromStore(cmd *cobra.Command, connectionID string) error {
	snap, found, err := app.store.Load(cmd.Context(), connectionID)
	if err != nil {
		return fmt.Errorf("loading %s from store: %w", connectionID, err)
	}
	if !found {
		return fmt.Errorf("no connection %s in the registry or persisted store", connectionID)
	}

	var parsed connectionSnapshot
	if err := json.Unmarshal(snap.Payload, &parsed); err != nil {
		return fmt.Errorf("decoding stored snapshot for %s: %w", connectionID, err)
	}
	fmt.Printf("Connection %s %s\n", cli.Bold(connectionID), cli.Dim("(from persisted store, not live)"))
	fmt.Printf("  State:      %s\n", stateColor(parsed.State))
	fmt.Printf("  Global res: %s\n", parsed.GlobalReservationID)
	return nil
}

func stateColor(state string) string {
	switch state {
	case "Terminated":
		return cli.Red(state)
	case "Reserving", "Provisioning", "Releasing", "Terminating":
		return cli.Yellow(state)
	default:
		return cli.Green(state)
	}
}
