package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

func cmdPing(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	latency := s.HeartbeatLatency().Milliseconds()
	uptime := time.Since(b.started).Round(time.Second)
	b.replyEmbed(m.ChannelID, simpleEmbed("Pong!",
		fmt.Sprintf("Gateway latency: %dms\nUptime: %s", latency, uptime), colorDefault))
}

func cmdHelp(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	// Commands grouped by category, in registration order. Owner commands
	// are only listed for the owner.
	categories := []string{
		categoryGeneral,
		categoryInfo,
		categoryModeration,
		categoryFun,
		categorySettings,
	}
	if m.Author.ID == b.cfg.OwnerID {
		categories = append(categories, categoryOwner)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Commands",
		Color: colorDefault,
	}
	for _, category := range categories {
		var lines []string
		for _, cmd := range b.order {
			if cmd.category == category {
				lines = append(lines, cmd.usageLine(b.cfg.Prefix))
			}
		}
		if len(lines) == 0 {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  category,
			Value: strings.Join(lines, "\n"),
		})
	}
	b.replyEmbed(m.ChannelID, embed)
}
