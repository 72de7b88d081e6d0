// Package nsatest provides fakes, fixtures, and integration-test helpers
// shared across the module's package-level test files.
package nsatest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisAddr returns the address of the test Redis instance, from the
// REDIS_ADDR environment variable, or "" if unset.
func RedisAddr() string {
	return os.Getenv("REDIS_ADDR")
}

// SkipIfNoRedis skips the test if REDIS_ADDR is unset or unreachable.
func SkipIfNoRedis(t *testing.T) string {
	t.Helper()

	addr := RedisAddr()
	if addr == "" {
		t.Skip("test Redis not available: set REDIS_ADDR to run this test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("test Redis not reachable at %s: %v", addr, err)
	}
	return addr
}
