package bot

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func cmdShutdown(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	b.reply(m.ChannelID, "Shutting down. Goodbye!")
	b.logger.Info("shutdown requested", zap.String("user", m.Author.ID))
	b.requestShutdown()
}

func cmdSetStatus(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.reply(m.ChannelID, "Give the new status text.")
		return
	}
	text := strings.Join(args, " ")
	if err := s.UpdateGameStatus(0, text); err != nil {
		b.logger.Warn("presence update failed", zap.Error(err))
		b.reply(m.ChannelID, "Could not update the status.")
		return
	}
	b.reply(m.ChannelID, "Status updated.")
}

func cmdLock(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if err := b.store.SetLocked(ctx, true); err != nil {
		b.logger.Error("lock save failed", zap.Error(err))
		b.reply(m.ChannelID, "Could not lock the bot.")
		return
	}
	b.reply(m.ChannelID, "🔒 Commands are locked.")
}

func cmdUnlock(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if err := b.store.SetLocked(ctx, false); err != nil {
		b.logger.Error("unlock save failed", zap.Error(err))
		b.reply(m.ChannelID, "Could not unlock the bot.")
		return
	}
	b.reply(m.ChannelID, "🔓 Commands are unlocked.")
}
