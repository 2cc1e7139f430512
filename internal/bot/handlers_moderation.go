package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func cmdKick(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(m.Mentions) == 0 {
		b.reply(m.ChannelID, fmt.Sprintf("Usage: `%skick @member [reason]`", b.cfg.Prefix))
		return
	}
	target := m.Mentions[0]
	reason := trailingReason(args, 1)

	if !b.actorOutranks(s, m.GuildID, m.Author.ID, target.ID) {
		b.reply(m.ChannelID, "You cannot act on a member with an equal or higher role.")
		return
	}

	if err := s.GuildMemberDeleteWithReason(m.GuildID, target.ID, reason); err != nil {
		b.logger.Warn("kick failed", zap.String("user", target.ID), zap.Error(err))
		if isPermissionError(err) {
			b.reply(m.ChannelID, "I lack the permissions to kick that member.")
		} else {
			b.reply(m.ChannelID, "Kick failed.")
		}
		return
	}
	b.replyEmbed(m.ChannelID, simpleEmbed("Member kicked",
		fmt.Sprintf("**%s** was kicked. Reason: %s", target.Username, reasonOrNone(reason)), colorOrange))
}

func cmdBan(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(m.Mentions) == 0 {
		b.reply(m.ChannelID, fmt.Sprintf("Usage: `%sban @member [reason]`", b.cfg.Prefix))
		return
	}
	target := m.Mentions[0]
	reason := trailingReason(args, 1)

	if !b.actorOutranks(s, m.GuildID, m.Author.ID, target.ID) {
		b.reply(m.ChannelID, "You cannot act on a member with an equal or higher role.")
		return
	}

	if err := s.GuildBanCreateWithReason(m.GuildID, target.ID, reason, 0); err != nil {
		b.logger.Warn("ban failed", zap.String("user", target.ID), zap.Error(err))
		if isPermissionError(err) {
			b.reply(m.ChannelID, "I lack the permissions to ban that member.")
		} else {
			b.reply(m.ChannelID, "Ban failed.")
		}
		return
	}
	b.replyEmbed(m.ChannelID, simpleEmbed("Member banned",
		fmt.Sprintf("**%s** was banned. Reason: %s", target.Username, reasonOrNone(reason)), colorRed))
}

func cmdUnban(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.reply(m.ChannelID, fmt.Sprintf("Usage: `%sunban <user id>`", b.cfg.Prefix))
		return
	}
	userID := args[0]
	if _, err := strconv.ParseUint(userID, 10, 64); err != nil {
		b.reply(m.ChannelID, "That does not look like a user ID.")
		return
	}

	if err := s.GuildBanDelete(m.GuildID, userID); err != nil {
		if isNotFoundError(err) {
			b.reply(m.ChannelID, "That user is not banned.")
			return
		}
		b.logger.Warn("unban failed", zap.String("user", userID), zap.Error(err))
		b.reply(m.ChannelID, "Unban failed.")
		return
	}
	b.replyEmbed(m.ChannelID, simpleEmbed("Ban lifted",
		fmt.Sprintf("<@%s> was unbanned.", userID), colorGreen))
}

// bulkDeleteMax is the per-request ceiling of both the message listing and
// the bulk delete endpoints.
const bulkDeleteMax = 100

// channelPurger is the slice of the Discord API the clear command needs.
// *discordgo.Session satisfies it.
type channelPurger interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
}

// purgeMessages removes count recent messages plus the invoking one,
// chunking fetches and deletes so no single request exceeds the endpoint
// ceiling. Returns how many messages beyond the invoking one were removed.
func purgeMessages(session channelPurger, channelID string, count int) (int, error) {
	remaining := count + 1
	deleted := 0
	before := ""
	for remaining > 0 {
		limit := remaining
		if limit > bulkDeleteMax {
			limit = bulkDeleteMax
		}
		messages, err := session.ChannelMessages(channelID, limit, before, "", "")
		if err != nil {
			return deleted, fmt.Errorf("list messages: %w", err)
		}
		if len(messages) == 0 {
			break
		}

		ids := make([]string, 0, len(messages))
		for _, msg := range messages {
			ids = append(ids, msg.ID)
		}
		if err := session.ChannelMessagesBulkDelete(channelID, ids); err != nil {
			return deleted, fmt.Errorf("bulk delete: %w", err)
		}
		deleted += len(ids)
		remaining -= len(ids)
		before = messages[len(messages)-1].ID
		if len(messages) < limit {
			break
		}
	}
	if deleted > 0 {
		deleted--
	}
	return deleted, nil
}

func cmdClear(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.reply(m.ChannelID, fmt.Sprintf("Usage: `%sclear <count>`", b.cfg.Prefix))
		return
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 || count > 100 {
		b.reply(m.ChannelID, "Give a number between 1 and 100.")
		return
	}

	deleted, err := purgeMessages(s, m.ChannelID, count)
	if err != nil {
		b.logger.Warn("clear failed", zap.String("channel", m.ChannelID), zap.Error(err))
		if isPermissionError(err) {
			b.reply(m.ChannelID, "I lack the permissions to delete messages here.")
		} else {
			b.reply(m.ChannelID, "Clear failed. Messages older than two weeks cannot be bulk deleted.")
		}
		return
	}
	b.reply(m.ChannelID, fmt.Sprintf("Deleted %d messages.", deleted))
}

func cmdSendTo(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	channelID := firstChannelMention(args)
	if channelID == "" || len(args) < 2 {
		b.reply(m.ChannelID, fmt.Sprintf("Usage: `%ssendto #channel <text>`", b.cfg.Prefix))
		return
	}
	text := strings.Join(args[1:], " ")

	if _, err := s.ChannelMessageSend(channelID, text); err != nil {
		b.logger.Warn("sendto failed", zap.String("channel", channelID), zap.Error(err))
		b.reply(m.ChannelID, "Could not send to that channel.")
		return
	}
	b.reply(m.ChannelID, "Sent.")
}

func cmdAnnounce(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.reply(m.ChannelID, fmt.Sprintf("Usage: `%sannounce <text>`", b.cfg.Prefix))
		return
	}
	text := strings.Join(args, " ")

	// Drop the invoking message so only the announcement remains.
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		b.logger.Warn("announce cleanup failed", zap.String("message", m.ID), zap.Error(err))
	}

	embed := simpleEmbed("Announcement", text, colorDefault)
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("by %s", m.Author.Username),
	}
	b.replyEmbed(m.ChannelID, embed)
}

// actorOutranks reports whether the actor's top role is strictly above the
// target's. The guild owner always outranks.
func (b *Bot) actorOutranks(s *discordgo.Session, guildID, actorID, targetID string) bool {
	guild, err := s.State.Guild(guildID)
	if err != nil || guild == nil {
		return false
	}
	if guild.OwnerID == actorID {
		return true
	}

	positions := make(map[string]int, len(guild.Roles))
	for _, role := range guild.Roles {
		positions[role.ID] = role.Position
	}
	top := func(userID string) int {
		member, err := s.State.Member(guildID, userID)
		if err != nil {
			member, err = s.GuildMember(guildID, userID)
			if err != nil {
				return -1
			}
		}
		best := 0
		for _, id := range member.Roles {
			if pos, ok := positions[id]; ok && pos > best {
				best = pos
			}
		}
		return best
	}
	return top(actorID) > top(targetID)
}

func trailingReason(args []string, skip int) string {
	if len(args) <= skip {
		return ""
	}
	return strings.Join(args[skip:], " ")
}

func reasonOrNone(reason string) string {
	if reason == "" {
		return "none given"
	}
	return reason
}

// firstChannelMention extracts the channel ID from a <#123> token.
func firstChannelMention(args []string) string {
	for _, arg := range args {
		if strings.HasPrefix(arg, "<#") && strings.HasSuffix(arg, ">") {
			return strings.TrimSuffix(strings.TrimPrefix(arg, "<#"), ">")
		}
	}
	return ""
}
