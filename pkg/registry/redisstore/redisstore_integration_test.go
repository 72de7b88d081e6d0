//go:build integration

package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/ogfnsi/nsa-core/internal/nsatest"
	"github.com/ogfnsi/nsa-core/pkg/registry"
)

func TestStoreSaveLoadDelete(t *testing.T) {
	addr := nsatest.SkipIfNoRedis(t)
	ctx := context.Background()

	s := New(addr, time.Minute)
	defer s.Close()
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	snap := registry.Snapshot{ConnectionID: "conn-it-1", Payload: []byte(`{"state":"Reserved"}`)}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	defer s.Delete(ctx, snap.ConnectionID)

	loaded, ok, err := s.Load(ctx, snap.ConnectionID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected snapshot to be found")
	}
	if string(loaded.Payload) != string(snap.Payload) {
		t.Errorf("payload mismatch: got %s, want %s", loaded.Payload, snap.Payload)
	}

	if err := s.Delete(ctx, snap.ConnectionID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, err := s.Load(ctx, snap.ConnectionID); err != nil || ok {
		t.Fatalf("expected snapshot to be gone after delete, ok=%v err=%v", ok, err)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	addr := nsatest.SkipIfNoRedis(t)
	ctx := context.Background()

	s := New(addr, 0)
	defer s.Close()
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	_, ok, err := s.Load(ctx, "conn-does-not-exist")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Fatal("expected no snapshot for an unknown connection id")
	}
}
