package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ogfnsi/nsa-core/pkg/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage this agent's persistent process settings",
	Long: `Manage settings stored in ~/.nsa-agent/settings.json.

Settings configure this agent's own identity, listen address, and
persistence backend. The agent's specDir (-S) is where settings.json and
peers.yaml are read from at startup; this subcommand edits the
user-level default copy at ~/.nsa-agent/settings.json directly.

Examples:
  nsa-agent settings show
  nsa-agent settings set nsa_identity example.net:2020:nsa
  nsa-agent settings set persistence_backend redis
  nsa-agent settings set redis_addr localhost:6379`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		fmt.Printf("Settings file: %s\n\n", config.DefaultSettingsPath())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SETTING\tVALUE")
		fmt.Fprintln(w, "-------\t-----")

		printSetting := func(name, value string) {
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(w, "%s\t%s\n", name, value)
		}

		printSetting("nsa_identity", s.NSAIdentity)
		printSetting("nsa_endpoint", s.NSAEndpoint)
		printSetting("listen_addr", s.ListenAddr)
		printSetting("spec_dir", s.SpecDir)
		printSetting("persistence_backend", s.PersistenceBackend)
		printSetting("redis_addr", s.RedisAddr)
		printSetting("audit_log_path", s.AuditLogPath)
		printSetting("log_level", s.LogLevel)

		return w.Flush()
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: `Set a persistent setting value.

Available settings:
  nsa_identity         - This agent's own URN identity
  nsa_endpoint          - This agent's base provider endpoint URL
  listen_addr           - Address "serve" binds
  spec_dir              - Configuration directory
  persistence_backend   - "memory" or "redis"
  redis_addr            - Redis instance address
  audit_log_path        - Audit log file path
  log_level             - logrus level name`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting, value := args[0], args[1]

		s, err := config.LoadSettings()
		if err != nil {
			s = &config.Settings{}
		}

		switch setting {
		case "nsa_identity":
			s.NSAIdentity = value
		case "nsa_endpoint":
			s.NSAEndpoint = value
		case "listen_addr":
			s.ListenAddr = value
		case "spec_dir":
			s.SpecDir = value
		case "persistence_backend":
			if value != "memory" && value != "redis" {
				return fmt.Errorf("persistence_backend must be \"memory\" or \"redis\", got %q", value)
			}
			s.PersistenceBackend = value
		case "redis_addr":
			s.RedisAddr = value
		case "audit_log_path":
			s.AuditLogPath = value
		case "log_level":
			s.LogLevel = value
		default:
			return fmt.Errorf("unknown setting: %s", setting)
		}

		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Printf("%s set to: %s\n", setting, value)
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.DefaultSettingsPath())
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}
