package requester

import "context"

// Future bridges an outstanding remote-path operation to the inbound
// callback that eventually resolves it: a SubConnection's remote Reserve/
// Provision/etc. call blocks on Wait while the matching Callbacks method
// calls Resolve once the peer's confirmation or failure arrives. This is
// the task/channel replacement for a callback-chained deferred.
type Future struct {
	ch chan error
}

// NewFuture builds an unresolved Future.
func NewFuture() *Future {
	return &Future{ch: make(chan error, 1)}
}

// Resolve completes the future with err (nil for success). Only the first
// call has any effect; later calls are dropped rather than blocking, since
// a peer is not expected to confirm the same operation twice.
func (f *Future) Resolve(err error) {
	select {
	case f.ch <- err:
	default:
	}
}

// Wait blocks until Resolve is called or ctx is done, whichever comes first.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case err := <-f.ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
