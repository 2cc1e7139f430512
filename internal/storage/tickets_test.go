package storage

import (
	"context"
	"testing"
	"time"
)

func TestTicketSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.TicketSettings(ctx, "g1")
	if err != nil {
		t.Fatalf("ticket settings: %v", err)
	}
	if ok {
		t.Fatal("expected no settings")
	}

	settings := TicketSettings{
		GuildID:         "g1",
		CategoryID:      "cat1",
		LogChannelID:    "log1",
		ModeratorRoleID: "mod1",
	}
	if err := store.SetTicketSettings(ctx, settings); err != nil {
		t.Fatalf("set ticket settings: %v", err)
	}

	settings.LogChannelID = "log2"
	if err := store.SetTicketSettings(ctx, settings); err != nil {
		t.Fatalf("update ticket settings: %v", err)
	}

	got, ok, err := store.TicketSettings(ctx, "g1")
	if err != nil {
		t.Fatalf("ticket settings: %v", err)
	}
	if !ok {
		t.Fatal("expected settings")
	}
	if got.LogChannelID != "log2" || got.CategoryID != "cat1" || got.ModeratorRoleID != "mod1" {
		t.Fatalf("unexpected settings: %+v", got)
	}

	all, err := store.ListTicketSettings(ctx)
	if err != nil {
		t.Fatalf("list ticket settings: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 configured guild, got %d", len(all))
	}
}

func TestActiveTickets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.ActiveTicketForUser(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("active ticket for user: %v", err)
	}
	if ok {
		t.Fatal("expected no ticket")
	}

	opened := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ticket := ActiveTicket{
		ChannelID: "ch1",
		GuildID:   "g1",
		UserID:    "u1",
		OpenedAt:  opened,
	}
	if err := store.InsertActiveTicket(ctx, ticket); err != nil {
		t.Fatalf("insert active ticket: %v", err)
	}

	got, ok, err := store.ActiveTicketForUser(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("active ticket for user: %v", err)
	}
	if !ok {
		t.Fatal("expected ticket")
	}
	if got.ChannelID != "ch1" || !got.OpenedAt.Equal(opened) {
		t.Fatalf("unexpected ticket: %+v", got)
	}

	byChannel, ok, err := store.ActiveTicketByChannel(ctx, "ch1")
	if err != nil {
		t.Fatalf("active ticket by channel: %v", err)
	}
	if !ok {
		t.Fatal("expected ticket by channel")
	}
	if byChannel.UserID != "u1" {
		t.Fatalf("unexpected user %q", byChannel.UserID)
	}

	// Same user in another guild is independent.
	other := ActiveTicket{ChannelID: "ch2", GuildID: "g2", UserID: "u1", OpenedAt: opened}
	if err := store.InsertActiveTicket(ctx, other); err != nil {
		t.Fatalf("insert second ticket: %v", err)
	}

	if err := store.DeleteActiveTicket(ctx, "ch1"); err != nil {
		t.Fatalf("delete active ticket: %v", err)
	}
	_, ok, err = store.ActiveTicketForUser(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("active ticket for user: %v", err)
	}
	if ok {
		t.Fatal("expected deleted ticket to be gone")
	}
	_, ok, err = store.ActiveTicketForUser(ctx, "g2", "u1")
	if err != nil {
		t.Fatalf("active ticket for user: %v", err)
	}
	if !ok {
		t.Fatal("expected ticket in other guild to remain")
	}
}
