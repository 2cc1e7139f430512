package bot

import "github.com/bwmarrin/discordgo"

const (
	colorDefault = 0x5865F2
	colorGreen   = 0x57F287
	colorRed     = 0xED4245
	colorOrange  = 0xFAA61A
)

func simpleEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}
}
