package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func cmdServerInfo(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	guild, err := s.State.Guild(m.GuildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(m.GuildID)
		if err != nil {
			b.logger.Warn("guild lookup failed", zap.String("guild", m.GuildID), zap.Error(err))
			b.reply(m.ChannelID, "Could not load server information.")
			return
		}
	}

	created, err := discordgo.SnowflakeTimestamp(guild.ID)
	createdLine := "unknown"
	if err == nil {
		createdLine = created.UTC().Format("2006-01-02")
	}

	embed := &discordgo.MessageEmbed{
		Title: guild.Name,
		Color: colorDefault,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Owner", Value: fmt.Sprintf("<@%s>", guild.OwnerID), Inline: true},
			{Name: "Members", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true},
			{Name: "Roles", Value: fmt.Sprintf("%d", len(guild.Roles)), Inline: true},
			{Name: "Channels", Value: fmt.Sprintf("%d", len(guild.Channels)), Inline: true},
			{Name: "Created", Value: createdLine, Inline: true},
		},
	}
	if guild.Icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("")}
	}
	b.replyEmbed(m.ChannelID, embed)
}

func cmdUserInfo(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	target := m.Author
	if len(m.Mentions) > 0 {
		target = m.Mentions[0]
	}

	member, err := s.State.Member(m.GuildID, target.ID)
	if err != nil {
		member, err = s.GuildMember(m.GuildID, target.ID)
		if err != nil {
			b.logger.Warn("member lookup failed", zap.String("user", target.ID), zap.Error(err))
			b.reply(m.ChannelID, "Could not load that member.")
			return
		}
	}

	created, err := discordgo.SnowflakeTimestamp(target.ID)
	createdLine := "unknown"
	if err == nil {
		createdLine = created.UTC().Format("2006-01-02")
	}
	joinedLine := "unknown"
	if !member.JoinedAt.IsZero() {
		joinedLine = member.JoinedAt.UTC().Format("2006-01-02")
	}

	roles := make([]string, 0, len(member.Roles))
	for _, roleID := range member.Roles {
		roles = append(roles, fmt.Sprintf("<@&%s>", roleID))
	}
	roleLine := "none"
	if len(roles) > 0 {
		roleLine = strings.Join(roles, " ")
	}

	embed := &discordgo.MessageEmbed{
		Title: target.Username,
		Color: colorDefault,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: target.AvatarURL(""),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: target.ID, Inline: true},
			{Name: "Account created", Value: createdLine, Inline: true},
			{Name: "Joined", Value: joinedLine, Inline: true},
			{Name: "Roles", Value: roleLine},
		},
	}
	b.replyEmbed(m.ChannelID, embed)
}
