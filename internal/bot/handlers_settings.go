package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"embedium/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func cmdSetWelcome(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	channelID := firstChannelMention(args)
	if channelID == "" {
		channelID = m.ChannelID
	}
	if err := b.store.SetWelcomeChannel(ctx, m.GuildID, channelID); err != nil {
		b.logger.Error("welcome channel save failed", zap.String("guild", m.GuildID), zap.Error(err))
		b.reply(m.ChannelID, "Could not save the setting.")
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Welcome messages will be posted in <#%s>.", channelID))
}

func cmdResetWelcome(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if err := b.store.ResetWelcomeChannel(ctx, m.GuildID); err != nil {
		b.logger.Error("welcome channel reset failed", zap.String("guild", m.GuildID), zap.Error(err))
		b.reply(m.ChannelID, "Could not clear the setting.")
		return
	}
	b.reply(m.ChannelID, "Welcome messages are disabled.")
}

func cmdReactionRole(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 3 || len(m.MentionRoles) == 0 {
		b.reply(m.ChannelID, fmt.Sprintf("Usage: `%sreactionrole <message id> <emoji> @role`", b.cfg.Prefix))
		return
	}
	messageID := args[0]
	if _, err := strconv.ParseUint(messageID, 10, 64); err != nil {
		b.reply(m.ChannelID, "That does not look like a message ID.")
		return
	}
	emoji := normalizeEmoji(args[1])
	roleID := m.MentionRoles[0]

	// Seed the reaction so members have something to click, and verify the
	// message exists in this channel while doing so.
	if err := s.MessageReactionAdd(m.ChannelID, messageID, emoji); err != nil {
		if isNotFoundError(err) {
			b.reply(m.ChannelID, "Message not found in this channel.")
			return
		}
		b.logger.Warn("seed reaction failed", zap.String("message", messageID), zap.Error(err))
		b.reply(m.ChannelID, "Could not add the reaction. Is the emoji valid?")
		return
	}

	if err := b.store.SetReactionRole(ctx, m.GuildID, messageID, emoji, roleID); err != nil {
		b.logger.Error("reaction role save failed", zap.String("guild", m.GuildID), zap.Error(err))
		b.reply(m.ChannelID, "Could not save the binding.")
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Reacting with %s on that message now grants <@&%s>.", args[1], roleID))
}

// normalizeEmoji turns a custom emoji mention <a:name:id> into the name:id
// form the reaction endpoints expect. Unicode emoji pass through unchanged.
func normalizeEmoji(raw string) string {
	if !strings.HasPrefix(raw, "<") || !strings.HasSuffix(raw, ">") {
		return raw
	}
	trimmed := strings.TrimSuffix(strings.TrimPrefix(raw, "<"), ">")
	trimmed = strings.TrimPrefix(trimmed, "a")
	return strings.TrimPrefix(trimmed, ":")
}

func cmdSilence(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	channelID := firstChannelMention(args)
	if channelID == "" {
		channelID = m.ChannelID
	}
	if err := b.store.SetSilentChannel(ctx, m.GuildID, channelID); err != nil {
		b.logger.Error("silent channel save failed", zap.String("channel", channelID), zap.Error(err))
		b.reply(m.ChannelID, "Could not save the setting.")
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Commands are now disabled in <#%s>.", channelID))
}

func cmdUnsilence(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	channelID := firstChannelMention(args)
	if channelID == "" {
		channelID = m.ChannelID
	}
	if err := b.store.RemoveSilentChannel(ctx, m.GuildID, channelID); err != nil {
		b.logger.Error("silent channel removal failed", zap.String("channel", channelID), zap.Error(err))
		b.reply(m.ChannelID, "Could not clear the setting.")
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Commands are enabled in <#%s> again.", channelID))
}

func cmdSetAutorole(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(m.MentionRoles) == 0 {
		b.reply(m.ChannelID, fmt.Sprintf("Usage: `%ssetautorole @role`", b.cfg.Prefix))
		return
	}
	roleID := m.MentionRoles[0]

	if !b.roleBelowBotTop(s, m.GuildID, roleID) {
		b.reply(m.ChannelID, "That role is at or above my top role, so I could never grant it.")
		return
	}

	if err := b.store.SetAutorole(ctx, m.GuildID, roleID); err != nil {
		b.logger.Error("autorole save failed", zap.String("guild", m.GuildID), zap.Error(err))
		b.reply(m.ChannelID, "Could not save the setting.")
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("New members will receive <@&%s>.", roleID))
}

func cmdResetAutorole(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if err := b.store.ResetAutorole(ctx, m.GuildID); err != nil {
		b.logger.Error("autorole reset failed", zap.String("guild", m.GuildID), zap.Error(err))
		b.reply(m.ChannelID, "Could not clear the setting.")
		return
	}
	b.reply(m.ChannelID, "Autorole is disabled.")
}

// resolveTicketChannels verifies the configured category and log channel
// both live in the guild with the right channel types. Returns the category
// and "" on success, or a user-facing denial message.
func resolveTicketChannels(session ticketSession, guildID, categoryID, logChannelID string) (*discordgo.Channel, string) {
	category, err := session.Channel(categoryID)
	if err != nil || category.Type != discordgo.ChannelTypeGuildCategory {
		return nil, "That ID is not a category on this server."
	}
	if category.GuildID != guildID {
		return nil, "That category belongs to another server."
	}

	logChannel, err := session.Channel(logChannelID)
	if err != nil || logChannel.Type != discordgo.ChannelTypeGuildText {
		return nil, "The log channel must be a text channel on this server."
	}
	if logChannel.GuildID != guildID {
		return nil, "The log channel belongs to another server."
	}
	return category, ""
}

func cmdTicketSetup(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		b.reply(m.ChannelID, fmt.Sprintf("Usage: `%sticketsetup <category id> #log-channel [@mod-role]`", b.cfg.Prefix))
		return
	}
	categoryID := args[0]
	logChannelID := firstChannelMention(args)

	if _, err := strconv.ParseUint(categoryID, 10, 64); err != nil || logChannelID == "" {
		b.reply(m.ChannelID, fmt.Sprintf("Usage: `%sticketsetup <category id> #log-channel [@mod-role]`", b.cfg.Prefix))
		return
	}

	category, denial := resolveTicketChannels(s, m.GuildID, categoryID, logChannelID)
	if denial != "" {
		b.reply(m.ChannelID, denial)
		return
	}

	modRoleID := ""
	if len(m.MentionRoles) > 0 {
		modRoleID = m.MentionRoles[0]
	}

	err := b.store.SetTicketSettings(ctx, storage.TicketSettings{
		GuildID:         m.GuildID,
		CategoryID:      categoryID,
		LogChannelID:    logChannelID,
		ModeratorRoleID: modRoleID,
	})
	if err != nil {
		b.logger.Error("ticket settings save failed", zap.String("guild", m.GuildID), zap.Error(err))
		b.reply(m.ChannelID, "Could not save the ticket configuration.")
		return
	}

	summary := fmt.Sprintf("Tickets configured. Category: **%s**, log channel: <#%s>", category.Name, logChannelID)
	if modRoleID != "" {
		summary += fmt.Sprintf(", moderator role: <@&%s>", modRoleID)
	}
	b.reply(m.ChannelID, summary)
}

func cmdTicketPanel(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if _, ok, err := b.store.TicketSettings(ctx, m.GuildID); err != nil {
		b.logger.Error("ticket settings lookup failed", zap.String("guild", m.GuildID), zap.Error(err))
		b.reply(m.ChannelID, "Something went wrong, try again later.")
		return
	} else if !ok {
		b.reply(m.ChannelID, fmt.Sprintf("Run `%sticketsetup` first.", b.cfg.Prefix))
		return
	}

	target := firstChannelMention(args)
	if target == "" {
		target = m.ChannelID
	}
	if err := b.tickets.PostPanel(s, target); err != nil {
		b.logger.Error("ticket panel post failed", zap.String("channel", target), zap.Error(err))
		b.reply(m.ChannelID, "Could not post the panel.")
		return
	}
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		b.logger.Warn("panel command cleanup failed", zap.String("message", m.ID), zap.Error(err))
	}
}
