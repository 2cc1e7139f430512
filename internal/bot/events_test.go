package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func stateSession(t *testing.T) *discordgo.Session {
	t.Helper()
	state := discordgo.NewState()
	state.User = &discordgo.User{ID: "bot"}

	err := state.GuildAdd(&discordgo.Guild{
		ID: "g1",
		Roles: []*discordgo.Role{
			{ID: "bot-role", Position: 5},
			{ID: "low", Position: 2},
			{ID: "high", Position: 9},
			{ID: "equal", Position: 5},
		},
	})
	if err != nil {
		t.Fatalf("guild add: %v", err)
	}
	err = state.MemberAdd(&discordgo.Member{
		GuildID: "g1",
		User:    &discordgo.User{ID: "bot"},
		Roles:   []string{"bot-role"},
	})
	if err != nil {
		t.Fatalf("member add: %v", err)
	}
	return &discordgo.Session{State: state}
}

func TestRoleBelowBotTop(t *testing.T) {
	b := newTestBot(t)
	session := stateSession(t)

	cases := []struct {
		role string
		want bool
	}{
		{"low", true},
		{"equal", false},
		{"high", false},
		{"missing", false},
	}
	for _, tc := range cases {
		if got := b.roleBelowBotTop(session, "g1", tc.role); got != tc.want {
			t.Fatalf("roleBelowBotTop(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestActorOutranks(t *testing.T) {
	b := newTestBot(t)
	session := stateSession(t)

	members := []*discordgo.Member{
		{GuildID: "g1", User: &discordgo.User{ID: "mod"}, Roles: []string{"high"}},
		{GuildID: "g1", User: &discordgo.User{ID: "peer"}, Roles: []string{"equal"}},
		{GuildID: "g1", User: &discordgo.User{ID: "member"}, Roles: []string{"low"}},
	}
	for _, member := range members {
		if err := session.State.MemberAdd(member); err != nil {
			t.Fatalf("member add: %v", err)
		}
	}

	if !b.actorOutranks(session, "g1", "mod", "member") {
		t.Fatal("expected higher role to outrank")
	}
	if b.actorOutranks(session, "g1", "member", "mod") {
		t.Fatal("expected lower role not to outrank")
	}
	if b.actorOutranks(session, "g1", "peer", "peer") {
		t.Fatal("expected equal roles not to outrank")
	}
}
