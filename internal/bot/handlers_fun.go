package bot

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

var eightBallAnswers = []string{
	"It is certain.",
	"Without a doubt.",
	"Yes, definitely.",
	"Most likely.",
	"Signs point to yes.",
	"Ask again later.",
	"Better not tell you now.",
	"Cannot predict now.",
	"Don't count on it.",
	"My reply is no.",
	"Very doubtful.",
}

func cmdRoll(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sides := 6
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 2 || parsed > 1000 {
			b.reply(m.ChannelID, "Give a number of sides between 2 and 1000.")
			return
		}
		sides = parsed
	}
	result := rand.Intn(sides) + 1
	b.replyEmbed(m.ChannelID, simpleEmbed("🎲 Roll",
		fmt.Sprintf("%s rolled a **%d** (d%d).", m.Author.Username, result, sides), colorDefault))
}

func cmdCoinflip(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	side := "Heads"
	if rand.Intn(2) == 1 {
		side = "Tails"
	}
	b.replyEmbed(m.ChannelID, simpleEmbed("🪙 Coinflip",
		fmt.Sprintf("**%s**!", side), colorDefault))
}

func cmdEightBall(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.reply(m.ChannelID, "Ask a question first.")
		return
	}
	answer := eightBallAnswers[rand.Intn(len(eightBallAnswers))]
	b.replyEmbed(m.ChannelID, simpleEmbed("🎱 Magic 8-ball", answer, colorDefault))
}
