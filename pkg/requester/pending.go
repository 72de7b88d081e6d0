package requester

import (
	"sync"

	"github.com/ogfnsi/nsa-core/pkg/connection"
)

// pendingKey identifies one outstanding remote-path operation: a
// connection ID plus which lifecycle call is in flight against it. Two
// different operations against the same connection (e.g. a stale
// cancellation racing a fresh reserve) never share a Future.
type pendingKey struct {
	connectionID string
	operation    string
}

// Pending tracks the Future for every outstanding remote-path operation,
// keyed by connection ID and operation name, separately from the
// connection registry's own map and mutex.
type Pending struct {
	mu      sync.Mutex
	futures map[pendingKey]*Future
}

// NewPending builds an empty pending-operation table.
func NewPending() *Pending {
	return &Pending{futures: make(map[pendingKey]*Future)}
}

// Register creates and stores a Future for connectionID/operation,
// replacing any stale entry left by a prior attempt. The return type is
// connection.Future (the interface a remote SubConnection blocks on)
// rather than *Future, since pkg/connection cannot import this package
// without cycling back to itself.
func (p *Pending) Register(connectionID, operation string) connection.Future {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := NewFuture()
	p.futures[pendingKey{connectionID, operation}] = f
	return f
}

// Resolve completes and removes the Future for connectionID/operation, if
// one is outstanding. It reports whether a Future was found, so a callback
// arriving for an operation nobody is waiting on can be logged as such.
func (p *Pending) Resolve(connectionID, operation string, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := pendingKey{connectionID, operation}
	f, ok := p.futures[key]
	if !ok {
		return false
	}
	delete(p.futures, key)
	f.Resolve(err)
	return true
}
