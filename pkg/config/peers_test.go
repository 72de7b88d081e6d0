package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writePeersFile(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "peers.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write peers file: %v", err)
	}
	return path
}

func TestLoadPeers(t *testing.T) {
	tmpDir := t.TempDir()
	path := writePeersFile(t, tmpDir, `
peers:
  - identity: peer-a.example.net:2020:nsa
    endpoint: https://peer-a.example.net/nsi/cs2
  - identity: peer-b.example.net:2020:nsa
    endpoint: https://peer-b.example.net/nsi/cs2
    service_type: application/vnd.org.ogf.nsi.cs.v2+soap
`)

	peers, err := LoadPeers(path)
	if err != nil {
		t.Fatalf("LoadPeers() failed: %v", err)
	}
	if len(peers) != 2 {
		t.Fatalf("expected 2 peers, got %d", len(peers))
	}
	if peers[0].Identity != "peer-a.example.net:2020:nsa" {
		t.Errorf("unexpected identity: %q", peers[0].Identity)
	}
	if peers[1].ServiceType == "" {
		t.Error("expected second peer's service type to be preserved")
	}
}

func TestLoadPeers_MissingFileReturnsEmpty(t *testing.T) {
	peers, err := LoadPeers("/nonexistent/peers.yaml")
	if err != nil {
		t.Fatalf("expected no error for a missing peers file, got %v", err)
	}
	if len(peers) != 0 {
		t.Error("expected no peers for a missing file")
	}
}

func TestLoadPeers_MissingIdentity(t *testing.T) {
	tmpDir := t.TempDir()
	path := writePeersFile(t, tmpDir, "peers:\n  - endpoint: https://example.net/nsi\n")
	if _, err := LoadPeers(path); err == nil {
		t.Error("expected an error for a peer with no identity")
	}
}

func TestLoadPeers_MissingEndpoint(t *testing.T) {
	tmpDir := t.TempDir()
	path := writePeersFile(t, tmpDir, "peers:\n  - identity: peer.example.net:2020:nsa\n")
	if _, err := LoadPeers(path); err == nil {
		t.Error("expected an error for a peer with no endpoint")
	}
}

func TestLoadPeers_DuplicateIdentity(t *testing.T) {
	tmpDir := t.TempDir()
	path := writePeersFile(t, tmpDir, `
peers:
  - identity: peer.example.net:2020:nsa
    endpoint: https://peer.example.net/a
  - identity: peer.example.net:2020:nsa
    endpoint: https://peer.example.net/b
`)
	if _, err := LoadPeers(path); err == nil {
		t.Error("expected an error for a duplicate peer identity")
	}
}

func TestLoadPeers_MalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := writePeersFile(t, tmpDir, "peers: [this is not valid")
	if _, err := LoadPeers(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
