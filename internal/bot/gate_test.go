package bot

import (
	"context"
	"testing"

	"embedium/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestGateLock(t *testing.T) {
	store := newTestStore(t)
	gate := &gatekeeper{store: store, ownerID: "owner"}
	ctx := context.Background()

	allowed, err := gate.allowLock(ctx, "u1")
	if err != nil {
		t.Fatalf("allow lock: %v", err)
	}
	if !allowed {
		t.Fatal("expected allowed while unlocked")
	}

	if err := store.SetLocked(ctx, true); err != nil {
		t.Fatalf("set locked: %v", err)
	}

	allowed, err = gate.allowLock(ctx, "u1")
	if err != nil {
		t.Fatalf("allow lock: %v", err)
	}
	if allowed {
		t.Fatal("expected denied while locked")
	}

	// The owner passes regardless of the lock.
	allowed, err = gate.allowLock(ctx, "owner")
	if err != nil {
		t.Fatalf("allow lock: %v", err)
	}
	if !allowed {
		t.Fatal("expected owner to bypass the lock")
	}
}

func TestGateSilentChannel(t *testing.T) {
	store := newTestStore(t)
	gate := &gatekeeper{store: store, ownerID: "owner"}
	ctx := context.Background()

	if err := store.SetSilentChannel(ctx, "g1", "c1"); err != nil {
		t.Fatalf("set silent: %v", err)
	}

	allowed, err := gate.allowChannel(ctx, "u1", "c1")
	if err != nil {
		t.Fatalf("allow channel: %v", err)
	}
	if allowed {
		t.Fatal("expected denied in silent channel")
	}

	allowed, err = gate.allowChannel(ctx, "u1", "c2")
	if err != nil {
		t.Fatalf("allow channel: %v", err)
	}
	if !allowed {
		t.Fatal("expected allowed in regular channel")
	}

	allowed, err = gate.allowChannel(ctx, "owner", "c1")
	if err != nil {
		t.Fatalf("allow channel: %v", err)
	}
	if !allowed {
		t.Fatal("expected owner to bypass the silent channel")
	}
}
