// Package registry holds the process-wide map of connection ID to
// Connection, constructed explicitly by the process entry point and passed
// down to the orchestrator and the inbound callback dispatcher rather than
// kept as a package-level global.
package registry

import (
	"sync"

	"github.com/ogfnsi/nsa-core/pkg/connection"
)

// Registry maps connection IDs to the in-flight Connection driving them.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*connection.Connection
}

// New builds an empty registry.
func New() *Registry {
	return &Registry{conns: make(map[string]*connection.Connection)}
}

// Put records c under id, replacing any existing entry.
func (r *Registry) Put(id string, c *connection.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = c
}

// Get looks up the connection for id.
func (r *Registry) Get(id string) (*connection.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

// Delete removes id unconditionally.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Release removes id. The requester-facing API layer calls this once every
// requester reference is gone, after delivering the terminal confirmation
// for a connection already in the Terminated state. Release itself checks
// neither the connection's state nor any references: like Delete, it
// removes the entry unconditionally.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// List returns every connection currently tracked, in no particular order.
func (r *Registry) List() []*connection.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*connection.Connection, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}
