package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_Load(t *testing.T) {
	tmpDir := t.TempDir()
	settings := &Settings{
		NSAIdentity: "agent.example.net:2020:nsa",
		NSAEndpoint: "https://agent.example.net/nsi/cs2",
	}
	if err := settings.SaveTo(filepath.Join(tmpDir, "settings.json")); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "peers.yaml"), []byte(`
peers:
  - identity: peer.example.net:2020:nsa
    endpoint: https://peer.example.net/nsi/cs2
`), 0644); err != nil {
		t.Fatalf("failed to write peers: %v", err)
	}

	loaded, peers, err := NewLoader(tmpDir).Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.NSAIdentity != settings.NSAIdentity {
		t.Errorf("unexpected identity: %q", loaded.NSAIdentity)
	}
	if loaded.SpecDir != tmpDir {
		t.Errorf("expected SpecDir to default to the loader's directory, got %q", loaded.SpecDir)
	}
	if len(peers) != 1 {
		t.Fatalf("expected 1 peer, got %d", len(peers))
	}
}

func TestLoader_MissingIdentityFailsValidation(t *testing.T) {
	tmpDir := t.TempDir()
	settings := &Settings{NSAEndpoint: "https://agent.example.net/nsi/cs2"}
	if err := settings.SaveTo(filepath.Join(tmpDir, "settings.json")); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	if _, _, err := NewLoader(tmpDir).Load(); err == nil {
		t.Error("expected validation error for missing nsa_identity")
	}
}

func TestLoader_RedisBackendRequiresAddr(t *testing.T) {
	tmpDir := t.TempDir()
	settings := &Settings{
		NSAIdentity:        "agent.example.net:2020:nsa",
		NSAEndpoint:        "https://agent.example.net/nsi/cs2",
		PersistenceBackend: "redis",
	}
	if err := settings.SaveTo(filepath.Join(tmpDir, "settings.json")); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	if _, _, err := NewLoader(tmpDir).Load(); err == nil {
		t.Error("expected validation error for redis backend with no redis_addr")
	}
}

func TestLoader_UnknownBackendFailsValidation(t *testing.T) {
	tmpDir := t.TempDir()
	settings := &Settings{
		NSAIdentity:        "agent.example.net:2020:nsa",
		NSAEndpoint:        "https://agent.example.net/nsi/cs2",
		PersistenceBackend: "sqlite",
	}
	if err := settings.SaveTo(filepath.Join(tmpDir, "settings.json")); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	if _, _, err := NewLoader(tmpDir).Load(); err == nil {
		t.Error("expected validation error for an unrecognized persistence backend")
	}
}
