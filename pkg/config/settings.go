// Package config manages this agent's process settings (JSON) and its
// known-peer list (YAML), replacing pkg/settings's CLI-preference file
// with the process-level configuration an NSA needs to start serving.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultSpecDir is the default directory this agent looks in for its
// settings.json and peers.yaml when no override is configured.
const DefaultSpecDir = "/etc/nsa-agent"

const (
	// DefaultAuditMaxSizeMB is the default maximum audit log size in
	// megabytes before rotation.
	DefaultAuditMaxSizeMB = 10
	// DefaultAuditMaxBackups is the default maximum number of rotated
	// audit log files retained.
	DefaultAuditMaxBackups = 10
	// DefaultPersistenceBackend is used when Settings.PersistenceBackend
	// is unset.
	DefaultPersistenceBackend = "memory"
	// DefaultListenAddr is used when Settings.ListenAddr is unset.
	DefaultListenAddr = ":8443"
	// DefaultLogLevel is used when Settings.LogLevel is unset.
	DefaultLogLevel = "info"
)

// Settings holds this agent's persistent process configuration: its own
// identity, where it listens, how it persists connection state, and how
// it logs and audits.
type Settings struct {
	// NSAIdentity is this agent's own identity without the
	// "urn:ogf:network:" prefix that NSA.URN adds, e.g.
	// "example.net:2020:nsa".
	NSAIdentity string `json:"nsa_identity"`

	// NSAEndpoint is the base URL peers use to reach this agent's
	// provider service.
	NSAEndpoint string `json:"nsa_endpoint"`

	// ListenAddr is the address the agent's HTTP server binds.
	ListenAddr string `json:"listen_addr,omitempty"`

	// SpecDir overrides the default configuration directory.
	SpecDir string `json:"spec_dir,omitempty"`

	// PersistenceBackend selects the registry.Store implementation:
	// "memory" or "redis".
	PersistenceBackend string `json:"persistence_backend,omitempty"`

	// RedisAddr is the Redis instance address, used when
	// PersistenceBackend is "redis".
	RedisAddr string `json:"redis_addr,omitempty"`

	// AuditLogPath overrides the default audit log path.
	AuditLogPath string `json:"audit_log_path,omitempty"`

	// AuditMaxSizeMB is the max audit log size in MB before rotation.
	AuditMaxSizeMB int `json:"audit_max_size_mb,omitempty"`

	// AuditMaxBackups is the max number of rotated audit log files kept.
	AuditMaxBackups int `json:"audit_max_backups,omitempty"`

	// LogLevel is the logrus level name ("debug", "info", "warn", ...).
	LogLevel string `json:"log_level,omitempty"`

	// LogJSON selects JSON-formatted log output over text.
	LogJSON bool `json:"log_json,omitempty"`
}

// DefaultSettingsPath returns the default path for settings.json, under
// the user's home directory.
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "nsa-agent_settings.json"
	}
	return filepath.Join(home, ".nsa-agent", "settings.json")
}

// LoadSettings reads settings from the default location.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(DefaultSettingsPath())
}

// LoadSettingsFrom reads settings from a specific path, returning an
// empty Settings (not an error) if the file does not exist.
func LoadSettingsFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes settings to the default location.
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path, creating parent directories
// as needed.
func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetSpecDir returns the configuration directory, with a fallback default.
func (s *Settings) GetSpecDir() string {
	if s.SpecDir != "" {
		return s.SpecDir
	}
	return DefaultSpecDir
}

// GetListenAddr returns the listen address, with a fallback default.
func (s *Settings) GetListenAddr() string {
	if s.ListenAddr != "" {
		return s.ListenAddr
	}
	return DefaultListenAddr
}

// GetPersistenceBackend returns the persistence backend, with a fallback
// default of "memory".
func (s *Settings) GetPersistenceBackend() string {
	if s.PersistenceBackend != "" {
		return s.PersistenceBackend
	}
	return DefaultPersistenceBackend
}

// GetAuditLogPath returns the audit log path, falling back to
// specDir/audit.log when unset.
func (s *Settings) GetAuditLogPath() string {
	if s.AuditLogPath != "" {
		return s.AuditLogPath
	}
	return filepath.Join(s.GetSpecDir(), "audit.log")
}

// GetAuditMaxSizeMB returns the audit max size in MB, with a default of 10.
func (s *Settings) GetAuditMaxSizeMB() int {
	if s.AuditMaxSizeMB > 0 {
		return s.AuditMaxSizeMB
	}
	return DefaultAuditMaxSizeMB
}

// GetAuditMaxBackups returns the audit max backup count, with a default of 10.
func (s *Settings) GetAuditMaxBackups() int {
	if s.AuditMaxBackups > 0 {
		return s.AuditMaxBackups
	}
	return DefaultAuditMaxBackups
}

// GetLogLevel returns the configured log level, with a fallback of "info".
func (s *Settings) GetLogLevel() string {
	if s.LogLevel != "" {
		return s.LogLevel
	}
	return DefaultLogLevel
}
