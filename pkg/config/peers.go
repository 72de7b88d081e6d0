package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ogfnsi/nsa-core/pkg/nsatype"
)

// peerFile is peers.yaml's on-disk shape: a flat list of known peer NSAs,
// hand-authored by an operator rather than generated, unlike the
// teacher's topology/device specs.
type peerFile struct {
	Peers []peerEntry `yaml:"peers"`
}

type peerEntry struct {
	Identity    string `yaml:"identity"`
	Endpoint    string `yaml:"endpoint"`
	ServiceType string `yaml:"service_type,omitempty"`
}

// LoadPeers reads and validates a peers.yaml file, returning one NSA per
// entry.
func LoadPeers(path string) ([]nsatype.NSA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var file peerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	peers := make([]nsatype.NSA, 0, len(file.Peers))
	seen := make(map[string]bool, len(file.Peers))
	for i, p := range file.Peers {
		if p.Identity == "" {
			return nil, fmt.Errorf("%s: peer %d: identity must not be empty", path, i)
		}
		if p.Endpoint == "" {
			return nil, fmt.Errorf("%s: peer %q: endpoint must not be empty", path, p.Identity)
		}
		if seen[p.Identity] {
			return nil, fmt.Errorf("%s: duplicate peer identity %q", path, p.Identity)
		}
		seen[p.Identity] = true
		peers = append(peers, nsatype.NewNSA(p.Identity, p.Endpoint, p.ServiceType))
	}
	return peers, nil
}
