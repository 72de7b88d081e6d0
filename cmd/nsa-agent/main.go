// Command nsa-agent is a connection service network service agent: it
// reserves, provisions, releases, and terminates point-to-point circuits,
// aggregating a local hardware segment with zero or more remote peer
// segments behind a single connection ID.
//
// Verb-first CLI pattern:
//
//	nsa-agent <verb> <connection-id> [flags]
//
// Examples:
//
//	nsa-agent reserve conn-1 --src-network urn:ogf:network:siteA.example:2020 --src-port port1 \
//	                          --dst-network urn:ogf:network:siteB.example:2020 --dst-port port1 \
//	                          --vlan-src 100 --vlan-dst 100 --capacity 1000000000
//	nsa-agent provision conn-1
//	nsa-agent show conn-1
//	nsa-agent release conn-1
//	nsa-agent terminate conn-1
//	nsa-agent serve --listen :8443
//	nsa-agent settings show
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ogfnsi/nsa-core/pkg/audit"
	"github.com/ogfnsi/nsa-core/pkg/backend/simulated"
	proxysimulated "github.com/ogfnsi/nsa-core/pkg/proxy/simulated"
	"github.com/ogfnsi/nsa-core/pkg/config"
	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
	"github.com/ogfnsi/nsa-core/pkg/registry"
	"github.com/ogfnsi/nsa-core/pkg/registry/memstore"
	"github.com/ogfnsi/nsa-core/pkg/registry/redisstore"
	"github.com/ogfnsi/nsa-core/pkg/requester"
	"github.com/ogfnsi/nsa-core/pkg/util"
)

// App holds CLI state shared across all commands: settings loaded once in
// PersistentPreRunE, and the in-process objects every lifecycle
// subcommand drives.
type App struct {
	specDir    string
	verbose    bool

	settings *config.Settings
	peers    []nsatype.NSA

	registry *registry.Registry
	store    registry.Store
	errors   *errs.ErrorRegistry
	pending  *requester.Pending

	backend *simulated.Backend
	proxy   *proxysimulated.Proxy

	auditLogger audit.Logger
}

var app = &App{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "nsa-agent",
	Short:         "NSI connection service network service agent",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `nsa-agent reserves, provisions, releases, and terminates NSI
point-to-point circuits.

  nsa-agent <verb> <connection-id> [flags]

Write verbs are interactive demo commands driving an in-memory simulated
backend and peer proxy — there is no real SOAP/XML wire transport here,
only the codec boundary "serve" exercises with JSON.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if isSettingsOrHelp(cmd) {
			return nil
		}

		var err error
		loader := config.NewLoader(app.specDir)
		app.settings, app.peers, err = loader.Load()
		if err != nil {
			util.Logger.Warnf("could not load configuration from %s: %v", app.specDir, err)
			app.settings = &config.Settings{}
		}
		if app.specDir == "" {
			app.specDir = app.settings.GetSpecDir()
		}

		if app.verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel(app.settings.GetLogLevel())
		}
		if app.settings.LogJSON {
			util.SetJSONFormat()
		}

		app.registry = registry.New()
		app.errors = errs.NewErrorRegistry()
		app.pending = requester.NewPending()
		app.backend = simulated.New()
		app.proxy = proxysimulated.New()
		// The demo CLI drives its simulated peer proxy and the requester
		// callback surface in one process, so wire the proxy's completion
		// hook straight to the same Pending table requester.Callbacks
		// resolves against over a real wire — a remote SubConnection call
		// genuinely blocks on a Future here, rather than trusting the
		// proxy's synchronous return value as final.
		app.proxy.SetResolver(func(ctx context.Context, connectionID, operation string, err error) {
			app.pending.Resolve(connectionID, operation, err)
		})

		switch app.settings.GetPersistenceBackend() {
		case "redis":
			store := redisstore.New(app.settings.RedisAddr, 0)
			if err := store.Connect(cmd.Context()); err != nil {
				return fmt.Errorf("connecting to redis at %s: %w", app.settings.RedisAddr, err)
			}
			app.store = store
		default:
			app.store = memstore.New()
		}

		auditLogger, err := audit.NewFileLogger(app.settings.GetAuditLogPath(), audit.RotationConfig{
			MaxSizeMB:  app.settings.GetAuditMaxSizeMB(),
			MaxBackups: app.settings.GetAuditMaxBackups(),
		})
		if err != nil {
			util.Logger.Warnf("could not initialize audit logging: %v", err)
		} else {
			app.auditLogger = auditLogger
			audit.SetDefaultLogger(auditLogger)
		}

		return nil
	},
}

func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "settings" || c.Name() == "help" || c.Name() == "version" {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&app.specDir, "specs", "S", "", "Configuration directory (settings.json, peers.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Verbose (debug) logging")

	rootCmd.AddGroup(
		&cobra.Group{ID: "lifecycle", Title: "Lifecycle Commands:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{reserveCmd, provisionCmd, releaseCmd, terminateCmd, showCmd} {
		cmd.GroupID = "lifecycle"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{serveCmd, settingsCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nsa-agent %s (%s)\n", version, gitCommit)
	},
}

// version and gitCommit are set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0 -X main.gitCommit=abc1234"
var (
	version   = "dev"
	gitCommit = "unknown"
)
