package bot

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func seedHistory(session *fakeSession, channelID string, total int) {
	// Newest first, as the API returns them.
	for i := total; i >= 1; i-- {
		session.history[channelID] = append(session.history[channelID], &discordgo.Message{
			ID:        fmt.Sprintf("m%d", i),
			Author:    &discordgo.User{ID: "u1", Username: "tester"},
			Content:   fmt.Sprintf("message %d", i),
			Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		})
	}
}

func TestPurgeMessages(t *testing.T) {
	session := newFakeSession()
	seedHistory(session, "c1", 10)

	deleted, err := purgeMessages(session, "c1", 5)
	require.NoError(t, err)
	require.Equal(t, 5, deleted)
	require.Len(t, session.bulkDeleted, 1)
	require.Len(t, session.bulkDeleted[0], 6)
}

func TestPurgeMessagesMaxCount(t *testing.T) {
	session := newFakeSession()
	seedHistory(session, "c1", 120)

	// The documented maximum needs count+1 messages gone, which exceeds a
	// single request, so the fetch must page instead of asking for 101.
	deleted, err := purgeMessages(session, "c1", 100)
	require.NoError(t, err)
	require.Equal(t, 100, deleted)

	for _, limit := range session.messageLimits {
		require.LessOrEqual(t, limit, 100)
	}
	require.Len(t, session.bulkDeleted, 2)
	require.Len(t, session.bulkDeleted[0], 100)
	require.Len(t, session.bulkDeleted[1], 1)
}

func TestPurgeMessagesShortHistory(t *testing.T) {
	session := newFakeSession()
	seedHistory(session, "c1", 3)

	deleted, err := purgeMessages(session, "c1", 10)
	require.NoError(t, err)
	require.Equal(t, 2, deleted)
	require.Len(t, session.bulkDeleted, 1)
	require.Len(t, session.bulkDeleted[0], 3)
}

func TestPurgeMessagesEmptyChannel(t *testing.T) {
	session := newFakeSession()

	deleted, err := purgeMessages(session, "c1", 10)
	require.NoError(t, err)
	require.Equal(t, 0, deleted)
	require.Empty(t, session.bulkDeleted)
}
