// Package memstore is an in-memory registry.Store, used by tests and the
// single-process demo CLI where no Redis instance is available.
package memstore

import (
	"context"
	"sync"

	"github.com/ogfnsi/nsa-core/pkg/registry"
)

// Store is a mutex-guarded map-backed registry.Store.
type Store struct {
	mu   sync.RWMutex
	snap map[string]registry.Snapshot
}

// New builds an empty Store.
func New() *Store {
	return &Store{snap: make(map[string]registry.Snapshot)}
}

// Save records snap, replacing any prior snapshot for the same connection.
func (s *Store) Save(_ context.Context, snap registry.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap[snap.ConnectionID] = snap
	return nil
}

// Load retrieves the snapshot for connectionID, if any.
func (s *Store) Load(_ context.Context, connectionID string) (registry.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snap[connectionID]
	return snap, ok, nil
}

// Delete removes the snapshot for connectionID, if any.
func (s *Store) Delete(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snap, connectionID)
	return nil
}
