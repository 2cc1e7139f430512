package storage

import (
	"context"
	"testing"
)

func TestReactionRoles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.ReactionRole(ctx, "g1", "m1", "✅")
	if err != nil {
		t.Fatalf("reaction role: %v", err)
	}
	if got != "" {
		t.Fatalf("expected no binding, got %q", got)
	}

	if err := store.SetReactionRole(ctx, "g1", "m1", "✅", "r1"); err != nil {
		t.Fatalf("set reaction role: %v", err)
	}
	// Rebinding the same emoji replaces the role.
	if err := store.SetReactionRole(ctx, "g1", "m1", "✅", "r2"); err != nil {
		t.Fatalf("rebind reaction role: %v", err)
	}

	got, err = store.ReactionRole(ctx, "g1", "m1", "✅")
	if err != nil {
		t.Fatalf("reaction role: %v", err)
	}
	if got != "r2" {
		t.Fatalf("expected role r2, got %q", got)
	}

	// A different emoji on the same message is a separate binding.
	if err := store.SetReactionRole(ctx, "g1", "m1", "🎉", "r3"); err != nil {
		t.Fatalf("set second reaction role: %v", err)
	}
	got, err = store.ReactionRole(ctx, "g1", "m1", "🎉")
	if err != nil {
		t.Fatalf("reaction role: %v", err)
	}
	if got != "r3" {
		t.Fatalf("expected role r3, got %q", got)
	}
}

func TestSilentChannels(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	silent, err := store.IsSilentChannel(ctx, "c1")
	if err != nil {
		t.Fatalf("is silent: %v", err)
	}
	if silent {
		t.Fatal("expected not silent")
	}

	if err := store.SetSilentChannel(ctx, "g1", "c1"); err != nil {
		t.Fatalf("set silent: %v", err)
	}
	// Marking twice is a no-op.
	if err := store.SetSilentChannel(ctx, "g1", "c1"); err != nil {
		t.Fatalf("re-set silent: %v", err)
	}

	silent, err = store.IsSilentChannel(ctx, "c1")
	if err != nil {
		t.Fatalf("is silent: %v", err)
	}
	if !silent {
		t.Fatal("expected silent")
	}

	if err := store.RemoveSilentChannel(ctx, "g1", "c1"); err != nil {
		t.Fatalf("remove silent: %v", err)
	}
	silent, err = store.IsSilentChannel(ctx, "c1")
	if err != nil {
		t.Fatalf("is silent: %v", err)
	}
	if silent {
		t.Fatal("expected not silent after removal")
	}
}

func TestAutorole(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.Autorole(ctx, "g1")
	if err != nil {
		t.Fatalf("autorole: %v", err)
	}
	if got != "" {
		t.Fatalf("expected no autorole, got %q", got)
	}

	if err := store.SetAutorole(ctx, "g1", "r1"); err != nil {
		t.Fatalf("set autorole: %v", err)
	}
	if err := store.SetAutorole(ctx, "g1", "r2"); err != nil {
		t.Fatalf("update autorole: %v", err)
	}

	got, err = store.Autorole(ctx, "g1")
	if err != nil {
		t.Fatalf("autorole: %v", err)
	}
	if got != "r2" {
		t.Fatalf("expected role r2, got %q", got)
	}

	if err := store.ResetAutorole(ctx, "g1"); err != nil {
		t.Fatalf("reset autorole: %v", err)
	}
	got, err = store.Autorole(ctx, "g1")
	if err != nil {
		t.Fatalf("autorole: %v", err)
	}
	if got != "" {
		t.Fatalf("expected cleared autorole, got %q", got)
	}
}
