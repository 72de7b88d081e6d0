package config

import (
	"path/filepath"

	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/nsatype"
)

// Loader loads and validates this agent's full configuration: process
// settings plus the peer list, both rooted under one spec directory.
// Each source is loaded independently, then cross-validated.
type Loader struct {
	specDir string
}

// NewLoader builds a Loader rooted at specDir. An empty specDir falls
// back to DefaultSpecDir.
func NewLoader(specDir string) *Loader {
	if specDir == "" {
		specDir = DefaultSpecDir
	}
	return &Loader{specDir: specDir}
}

// Load reads settings.json and peers.yaml from the loader's spec
// directory, and validates the result.
func (l *Loader) Load() (*Settings, []nsatype.NSA, error) {
	settings, err := LoadSettingsFrom(filepath.Join(l.specDir, "settings.json"))
	if err != nil {
		return nil, nil, err
	}
	if settings.SpecDir == "" {
		settings.SpecDir = l.specDir
	}

	peers, err := LoadPeers(filepath.Join(l.specDir, "peers.yaml"))
	if err != nil {
		return nil, nil, err
	}

	if err := l.validate(settings, peers); err != nil {
		return nil, nil, err
	}
	return settings, peers, nil
}

func (l *Loader) validate(settings *Settings, peers []nsatype.NSA) error {
	v := &errs.ValidationBuilder{}
	v.Add(settings.NSAIdentity != "", "nsa_identity must be set")
	v.Add(settings.NSAEndpoint != "", "nsa_endpoint must be set")
	if backend := settings.GetPersistenceBackend(); backend != "memory" && backend != "redis" {
		v.AddErrorf("persistence_backend %q is not one of memory, redis", backend)
	}
	if settings.GetPersistenceBackend() == "redis" {
		v.Add(settings.RedisAddr != "", "redis_addr must be set when persistence_backend is redis")
	}
	for _, p := range peers {
		v.Add(p.Endpoint != "", "peer "+p.Identity+" must have a non-empty endpoint")
	}
	return v.Build()
}
