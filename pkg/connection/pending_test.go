package connection

import (
	"context"
	"sync"
)

// testPending is a minimal PendingRegistry for this package's own tests.
// It can't reach for *requester.Pending — pkg/requester imports this
// package, so the reverse would cycle — but it only needs to pair with
// proxysim.Proxy.SetResolver to make a remote SubConnection's Register/Wait
// round trip resolve instantly, the same way the real demo CLI wires
// *requester.Pending to the simulated proxy.
type testPending struct {
	mu      sync.Mutex
	futures map[string]chan error
}

func newTestPending() *testPending {
	return &testPending{futures: make(map[string]chan error)}
}

func (p *testPending) Register(connectionID, operation string) Future {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan error, 1)
	p.futures[connectionID+"|"+operation] = ch
	return &testFuture{ch: ch}
}

// Resolve matches proxysim.Resolver's signature so it can be passed
// directly to Proxy.SetResolver.
func (p *testPending) Resolve(ctx context.Context, connectionID, operation string, err error) {
	p.mu.Lock()
	ch, ok := p.futures[connectionID+"|"+operation]
	if ok {
		delete(p.futures, connectionID+"|"+operation)
	}
	p.mu.Unlock()
	if ok {
		ch <- err
	}
}

type testFuture struct {
	ch chan error
}

func (f *testFuture) Wait(ctx context.Context) error {
	select {
	case err := <-f.ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
