package bot

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	categoryGeneral    = "General"
	categoryInfo       = "Information"
	categoryModeration = "Moderation"
	categoryFun        = "Fun"
	categorySettings   = "Settings"
	categoryOwner      = "Owner"
)

type commandFunc func(b *Bot, ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string)

type command struct {
	name      string
	aliases   []string
	category  string
	help      string
	perm      int64
	ownerOnly bool
	gated     bool
	run       commandFunc
}

func (b *Bot) registerCommands() {
	b.commands = make(map[string]*command)

	register := func(cmd *command) {
		b.order = append(b.order, cmd)
		b.commands[cmd.name] = cmd
		for _, alias := range cmd.aliases {
			b.commands[alias] = cmd
		}
	}

	register(&command{
		name:     "ping",
		category: categoryGeneral,
		help:     "Show gateway latency.",
		gated:    true,
		run:      cmdPing,
	})
	register(&command{
		name:     "help",
		category: categoryGeneral,
		help:     "List available commands.",
		run:      cmdHelp,
	})

	register(&command{
		name:     "serverinfo",
		aliases:  []string{"server"},
		category: categoryInfo,
		help:     "Show information about this server.",
		gated:    true,
		run:      cmdServerInfo,
	})
	register(&command{
		name:     "userinfo",
		aliases:  []string{"user"},
		category: categoryInfo,
		help:     "Show information about a member.",
		gated:    true,
		run:      cmdUserInfo,
	})

	register(&command{
		name:     "kick",
		category: categoryModeration,
		help:     "Kick a member: kick @member [reason].",
		perm:     discordgo.PermissionKickMembers,
		gated:    true,
		run:      cmdKick,
	})
	register(&command{
		name:     "ban",
		category: categoryModeration,
		help:     "Ban a member: ban @member [reason].",
		perm:     discordgo.PermissionBanMembers,
		gated:    true,
		run:      cmdBan,
	})
	register(&command{
		name:     "unban",
		category: categoryModeration,
		help:     "Lift a ban: unban <user id>.",
		perm:     discordgo.PermissionBanMembers,
		gated:    true,
		run:      cmdUnban,
	})
	register(&command{
		name:     "clear",
		category: categoryModeration,
		help:     "Bulk delete messages: clear <count>.",
		perm:     discordgo.PermissionManageMessages,
		gated:    true,
		run:      cmdClear,
	})
	register(&command{
		name:     "sendto",
		category: categoryModeration,
		help:     "Send a message to another channel: sendto #channel <text>.",
		perm:     discordgo.PermissionManageChannels,
		gated:    true,
		run:      cmdSendTo,
	})
	register(&command{
		name:     "announce",
		category: categoryModeration,
		help:     "Post an announcement embed in this channel.",
		perm:     discordgo.PermissionManageMessages,
		gated:    true,
		run:      cmdAnnounce,
	})

	register(&command{
		name:     "roll",
		category: categoryFun,
		help:     "Roll a die: roll [sides].",
		gated:    true,
		run:      cmdRoll,
	})
	register(&command{
		name:     "coinflip",
		aliases:  []string{"flip"},
		category: categoryFun,
		help:     "Flip a coin.",
		gated:    true,
		run:      cmdCoinflip,
	})
	register(&command{
		name:     "8ball",
		category: categoryFun,
		help:     "Ask the magic 8-ball a question.",
		gated:    true,
		run:      cmdEightBall,
	})

	register(&command{
		name:     "setwelcome",
		category: categorySettings,
		help:     "Set the welcome channel: setwelcome #channel.",
		perm:     discordgo.PermissionManageServer,
		gated:    true,
		run:      cmdSetWelcome,
	})
	register(&command{
		name:     "resetwelcome",
		category: categorySettings,
		help:     "Clear the welcome channel.",
		perm:     discordgo.PermissionManageServer,
		gated:    true,
		run:      cmdResetWelcome,
	})
	register(&command{
		name:     "reactionrole",
		category: categorySettings,
		help:     "Bind a role to a reaction: reactionrole <message id> <emoji> @role.",
		perm:     discordgo.PermissionManageRoles,
		gated:    true,
		run:      cmdReactionRole,
	})
	register(&command{
		name:     "silence",
		category: categorySettings,
		help:     "Disable commands in a channel: silence [#channel].",
		perm:     discordgo.PermissionManageChannels,
		gated:    true,
		run:      cmdSilence,
	})
	register(&command{
		name:     "unsilence",
		category: categorySettings,
		help:     "Re-enable commands in a channel: unsilence [#channel].",
		perm:     discordgo.PermissionManageChannels,
		gated:    true,
		run:      cmdUnsilence,
	})
	register(&command{
		name:     "setautorole",
		category: categorySettings,
		help:     "Set the role granted to new members: setautorole @role.",
		perm:     discordgo.PermissionManageRoles,
		gated:    true,
		run:      cmdSetAutorole,
	})
	register(&command{
		name:     "resetautorole",
		category: categorySettings,
		help:     "Clear the autorole.",
		perm:     discordgo.PermissionManageRoles,
		gated:    true,
		run:      cmdResetAutorole,
	})
	register(&command{
		name:     "ticketsetup",
		category: categorySettings,
		help:     "Configure tickets: ticketsetup <category id> #log-channel @mod-role.",
		perm:     discordgo.PermissionManageServer,
		gated:    true,
		run:      cmdTicketSetup,
	})
	register(&command{
		name:     "ticketpanel",
		category: categorySettings,
		help:     "Post the ticket panel: ticketpanel [#channel].",
		perm:     discordgo.PermissionManageServer,
		gated:    true,
		run:      cmdTicketPanel,
	})

	register(&command{
		name:      "shutdown",
		category:  categoryOwner,
		help:      "Shut the bot down.",
		ownerOnly: true,
		run:       cmdShutdown,
	})
	register(&command{
		name:      "setstatus",
		category:  categoryOwner,
		help:      "Change the presence text.",
		ownerOnly: true,
		run:       cmdSetStatus,
	})
	register(&command{
		name:      "lock",
		category:  categoryOwner,
		help:      "Lock all commands for everyone but the owner.",
		ownerOnly: true,
		run:       cmdLock,
	})
	register(&command{
		name:      "unlock",
		category:  categoryOwner,
		help:      "Unlock commands.",
		ownerOnly: true,
		run:       cmdUnlock,
	})
}

// usageLine renders the help entry for one command, including aliases.
func (c *command) usageLine(prefix string) string {
	var sb strings.Builder
	sb.WriteString("`")
	sb.WriteString(prefix)
	sb.WriteString(c.name)
	sb.WriteString("`")
	if len(c.aliases) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(c.aliases, ", "))
		sb.WriteString(")")
	}
	sb.WriteString(" - ")
	sb.WriteString(c.help)
	return sb.String()
}
