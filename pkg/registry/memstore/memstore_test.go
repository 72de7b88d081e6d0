package memstore

import (
	"context"
	"testing"

	"github.com/ogfnsi/nsa-core/pkg/registry"
)

func TestSaveLoadDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Save(ctx, registry.Snapshot{ConnectionID: "CONN-1", Payload: []byte(`{"state":"Reserved"}`)}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	snap, ok, err := s.Load(ctx, "CONN-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected snapshot to be found")
	}
	if string(snap.Payload) != `{"state":"Reserved"}` {
		t.Errorf("unexpected payload: %s", snap.Payload)
	}

	if err := s.Delete(ctx, "CONN-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Load(ctx, "CONN-1"); ok {
		t.Error("expected snapshot to be gone after delete")
	}
}

func TestLoadMissing(t *testing.T) {
	s := New()
	_, ok, err := s.Load(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing connection")
	}
}
