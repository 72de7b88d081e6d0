// Package redisstore is a Redis-backed registry.Store, grounded on the
// teacher's config_db/app_db client construction: one *redis.Client over a
// single DB, context-aware Get/Set calls, keys scoped by a fixed prefix.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ogfnsi/nsa-core/pkg/registry"
)

// keyPrefix namespaces every connection snapshot in the shared Redis DB.
const keyPrefix = "nsa:conn:"

// Store is a Redis-backed registry.Store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds a Store against the Redis instance at addr. ttl is applied to
// every Save; zero means snapshots never expire.
func New(addr string, ttl time.Duration) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Connect verifies connectivity to the configured Redis instance.
func (s *Store) Connect(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func key(connectionID string) string {
	return keyPrefix + connectionID
}

// Save writes snap's payload under its connection ID, with the store's
// configured TTL if any.
func (s *Store) Save(ctx context.Context, snap registry.Snapshot) error {
	if err := s.client.Set(ctx, key(snap.ConnectionID), snap.Payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: saving %s: %w", snap.ConnectionID, err)
	}
	return nil
}

// Load retrieves the snapshot for connectionID, if any.
func (s *Store) Load(ctx context.Context, connectionID string) (registry.Snapshot, bool, error) {
	val, err := s.client.Get(ctx, key(connectionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return registry.Snapshot{}, false, nil
	}
	if err != nil {
		return registry.Snapshot{}, false, fmt.Errorf("redisstore: loading %s: %w", connectionID, err)
	}
	return registry.Snapshot{ConnectionID: connectionID, Payload: val}, true, nil
}

// Delete removes the snapshot for connectionID, if any.
func (s *Store) Delete(ctx context.Context, connectionID string) error {
	if err := s.client.Del(ctx, key(connectionID)).Err(); err != nil {
		return fmt.Errorf("redisstore: deleting %s: %w", connectionID, err)
	}
	return nil
}
