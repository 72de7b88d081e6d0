package registry

import "context"

// Snapshot is an opaque, registry-serialized view of a connection's state,
// handed to a Store for persistence. The registry defines no schema for
// Payload — it is whatever encoding/json produces from the caller's own
// view of a Connection; a Store only needs to keep bytes by key.
type Snapshot struct {
	ConnectionID string
	Payload      []byte
}

// Store persists and retrieves connection snapshots. It defines no schema
// for Payload's contents — implementations are free to treat it as an
// opaque blob.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, connectionID string) (Snapshot, bool, error)
	Delete(ctx context.Context, connectionID string) error
}
