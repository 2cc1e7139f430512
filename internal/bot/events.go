package bot

import (
	"context"
	"fmt"

	"embedium/internal/monitoring"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) onGuildMemberAdd(session *discordgo.Session, event *discordgo.GuildMemberAdd) {
	if event.User == nil || event.User.Bot {
		return
	}
	monitoring.DiscordEvents.WithLabelValues("guild_member_add").Inc()
	ctx := context.Background()

	if channelID, err := b.store.WelcomeChannel(ctx, event.GuildID); err != nil {
		b.logger.Warn("welcome channel lookup failed", zap.String("guild", event.GuildID), zap.Error(err))
	} else if channelID != "" {
		description := fmt.Sprintf("<@%s> joined the server. Enjoy your stay!", event.User.ID)
		if guild, err := session.State.Guild(event.GuildID); err == nil && guild != nil {
			description = fmt.Sprintf("<@%s> joined **%s**. You are member #%d, enjoy your stay!",
				event.User.ID, guild.Name, guild.MemberCount)
		}
		embed := simpleEmbed("Welcome!", description, colorGreen)
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: event.User.AvatarURL("")}
		if _, err := session.ChannelMessageSendEmbed(channelID, embed); err != nil {
			b.logger.Warn("welcome message failed", zap.String("channel", channelID), zap.Error(err))
		}
	}

	b.applyAutorole(ctx, session, event)
}

func (b *Bot) applyAutorole(ctx context.Context, session *discordgo.Session, event *discordgo.GuildMemberAdd) {
	roleID, err := b.store.Autorole(ctx, event.GuildID)
	if err != nil {
		b.logger.Warn("autorole lookup failed", zap.String("guild", event.GuildID), zap.Error(err))
		return
	}
	if roleID == "" {
		return
	}

	// Never attempt a grant the role hierarchy would reject: the configured
	// role must sit strictly below the bot's own top role.
	if !b.roleBelowBotTop(session, event.GuildID, roleID) {
		b.logger.Warn("autorole above bot top role, skipping grant",
			zap.String("guild", event.GuildID),
			zap.String("role", roleID),
		)
		return
	}

	if err := session.GuildMemberRoleAdd(event.GuildID, event.User.ID, roleID); err != nil {
		b.logger.Warn("autorole grant failed",
			zap.String("guild", event.GuildID),
			zap.String("user", event.User.ID),
			zap.String("role", roleID),
			zap.Error(err),
		)
	}
}

func (b *Bot) roleBelowBotTop(session *discordgo.Session, guildID, roleID string) bool {
	guild, err := session.State.Guild(guildID)
	if err != nil || guild == nil {
		return false
	}
	botMember, err := session.State.Member(guildID, session.State.User.ID)
	if err != nil {
		botMember, err = session.GuildMember(guildID, session.State.User.ID)
		if err != nil {
			return false
		}
	}

	positions := make(map[string]int, len(guild.Roles))
	for _, role := range guild.Roles {
		positions[role.ID] = role.Position
	}

	target, ok := positions[roleID]
	if !ok {
		return false
	}
	botTop := 0
	for _, id := range botMember.Roles {
		if pos, ok := positions[id]; ok && pos > botTop {
			botTop = pos
		}
	}
	return target < botTop
}

func (b *Bot) onGuildMemberRemove(session *discordgo.Session, event *discordgo.GuildMemberRemove) {
	if event.User == nil || event.User.Bot {
		return
	}
	monitoring.DiscordEvents.WithLabelValues("guild_member_remove").Inc()
	ctx := context.Background()

	channelID, err := b.store.WelcomeChannel(ctx, event.GuildID)
	if err != nil {
		b.logger.Warn("welcome channel lookup failed", zap.String("guild", event.GuildID), zap.Error(err))
		return
	}
	if channelID == "" {
		return
	}
	embed := simpleEmbed("Goodbye",
		fmt.Sprintf("**%s** left the server.", event.User.Username), colorOrange)
	if _, err := session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.logger.Warn("leave message failed", zap.String("channel", channelID), zap.Error(err))
	}
}

func (b *Bot) onMessageReactionAdd(session *discordgo.Session, event *discordgo.MessageReactionAdd) {
	if event.UserID == session.State.User.ID {
		return
	}
	monitoring.DiscordEvents.WithLabelValues("message_reaction_add").Inc()

	roleID := b.reactionRoleFor(event.GuildID, event.MessageID, event.Emoji.APIName())
	if roleID == "" {
		return
	}
	if err := session.GuildMemberRoleAdd(event.GuildID, event.UserID, roleID); err != nil {
		b.logger.Warn("reaction role grant failed",
			zap.String("guild", event.GuildID),
			zap.String("user", event.UserID),
			zap.String("role", roleID),
			zap.Error(err),
		)
	}
}

func (b *Bot) onMessageReactionRemove(session *discordgo.Session, event *discordgo.MessageReactionRemove) {
	if event.UserID == session.State.User.ID {
		return
	}
	monitoring.DiscordEvents.WithLabelValues("message_reaction_remove").Inc()

	roleID := b.reactionRoleFor(event.GuildID, event.MessageID, event.Emoji.APIName())
	if roleID == "" {
		return
	}
	if err := session.GuildMemberRoleRemove(event.GuildID, event.UserID, roleID); err != nil {
		b.logger.Warn("reaction role removal failed",
			zap.String("guild", event.GuildID),
			zap.String("user", event.UserID),
			zap.String("role", roleID),
			zap.Error(err),
		)
	}
}

func (b *Bot) reactionRoleFor(guildID, messageID, emoji string) string {
	roleID, err := b.store.ReactionRole(context.Background(), guildID, messageID, emoji)
	if err != nil {
		b.logger.Warn("reaction role lookup failed",
			zap.String("guild", guildID),
			zap.String("message", messageID),
			zap.Error(err),
		)
		return ""
	}
	return roleID
}
