package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"embedium/internal/monitoring"
	"embedium/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	createTicketButtonID = "create_ticket_button"
	closeTicketButtonID  = "close_ticket_button"

	// Delay between the closing notice and the channel deletion, so the
	// participants see the countdown message before the channel vanishes.
	closeGracePeriod = 5 * time.Second
)

// ticketSession is the slice of the Discord API the ticket workflow needs.
// *discordgo.Session satisfies it.
type ticketSession interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

type ticketWorkflow struct {
	store  *storage.Store
	logger *zap.Logger
	grace  time.Duration
	botID  string
}

func newTicketWorkflow(store *storage.Store, logger *zap.Logger, grace time.Duration) *ticketWorkflow {
	return &ticketWorkflow{store: store, logger: logger, grace: grace}
}

// HandleCreate opens a private ticket channel for the interacting member.
func (t *ticketWorkflow) HandleCreate(ctx context.Context, session ticketSession, interaction *discordgo.InteractionCreate) {
	guildID := interaction.GuildID
	user := interaction.Member.User

	settings, ok, err := t.store.TicketSettings(ctx, guildID)
	if err != nil {
		t.logger.Error("ticket settings lookup failed", zap.String("guild", guildID), zap.Error(err))
		t.respond(session, interaction, "Something went wrong, try again later.")
		return
	}
	if !ok {
		t.respond(session, interaction, "Tickets are not configured on this server.")
		return
	}

	// The configured category or log channel may have been deleted since
	// setup. Each failure gets its own message so admins know what to fix.
	if _, err := session.Channel(settings.CategoryID); err != nil {
		t.logger.Warn("ticket category missing",
			zap.String("guild", guildID),
			zap.String("category", settings.CategoryID),
			zap.Error(err),
		)
		t.respond(session, interaction, "The ticket category no longer exists. Ask an admin to run the setup again.")
		return
	}
	if _, err := session.Channel(settings.LogChannelID); err != nil {
		t.logger.Warn("ticket log channel missing",
			zap.String("guild", guildID),
			zap.String("log_channel", settings.LogChannelID),
			zap.Error(err),
		)
		t.respond(session, interaction, "The ticket log channel no longer exists. Ask an admin to run the setup again.")
		return
	}

	existing, ok, err := t.store.ActiveTicketForUser(ctx, guildID, user.ID)
	if err != nil {
		t.logger.Error("active ticket lookup failed", zap.String("guild", guildID), zap.Error(err))
		t.respond(session, interaction, "Something went wrong, try again later.")
		return
	}
	if ok {
		// The channel may have been deleted by hand, leaving a stale row.
		if _, err := session.Channel(existing.ChannelID); err == nil {
			t.respond(session, interaction, fmt.Sprintf("You already have an open ticket: <#%s>", existing.ChannelID))
			return
		}
		if err := t.store.DeleteActiveTicket(ctx, existing.ChannelID); err != nil {
			t.logger.Warn("stale ticket purge failed", zap.String("channel", existing.ChannelID), zap.Error(err))
		}
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			// @everyone shares the guild ID.
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    user.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: ticketMemberPermissions,
		},
		{
			ID:    t.botID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: ticketMemberPermissions,
		},
	}
	// A deleted moderator role must not end up in the overwrites, the
	// channel create would be rejected wholesale. Warn and continue without
	// it instead.
	if settings.ModeratorRoleID != "" {
		if t.roleExists(session, guildID, settings.ModeratorRoleID) {
			overwrites = append(overwrites, &discordgo.PermissionOverwrite{
				ID:    settings.ModeratorRoleID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: ticketMemberPermissions,
			})
		} else {
			t.logger.Warn("ticket moderator role missing",
				zap.String("guild", guildID),
				zap.String("role", settings.ModeratorRoleID),
			)
		}
	}

	channel, err := session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 fmt.Sprintf("ticket-%s", strings.ToLower(user.Username)),
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             settings.CategoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		if isPermissionError(err) {
			t.respond(session, interaction, "I lack the permissions to create ticket channels here.")
		} else {
			t.respond(session, interaction, "Ticket channel creation failed, try again later.")
		}
		t.logger.Error("ticket channel creation failed", zap.String("guild", guildID), zap.Error(err))
		return
	}

	if err := t.store.InsertActiveTicket(ctx, storage.ActiveTicket{
		ChannelID: channel.ID,
		GuildID:   guildID,
		UserID:    user.ID,
		OpenedAt:  time.Now().UTC(),
	}); err != nil {
		t.logger.Error("active ticket insert failed", zap.String("channel", channel.ID), zap.Error(err))
	}

	welcome := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Support Ticket",
			Description: fmt.Sprintf("Hello <@%s>, describe your issue and the team will be with you shortly.", user.ID),
			Color:       colorDefault,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Close Ticket",
						Style:    discordgo.DangerButton,
						CustomID: closeTicketButtonID,
						Emoji:    discordgo.ComponentEmoji{Name: "🔒"},
					},
				},
			},
		},
	}
	if _, err := session.ChannelMessageSendComplex(channel.ID, welcome); err != nil {
		t.logger.Warn("ticket welcome message failed", zap.String("channel", channel.ID), zap.Error(err))
	}

	logEmbed := simpleEmbed("Ticket Opened",
		fmt.Sprintf("<@%s> opened <#%s>.", user.ID, channel.ID), colorGreen)
	if _, err := session.ChannelMessageSendEmbed(settings.LogChannelID, logEmbed); err != nil {
		t.logger.Warn("ticket open log failed", zap.String("log_channel", settings.LogChannelID), zap.Error(err))
	}

	t.respond(session, interaction, fmt.Sprintf("Your ticket is ready: <#%s>", channel.ID))
	monitoring.TicketsOpened.Inc()
}

// HandleClose archives the transcript and deletes the ticket channel.
func (t *ticketWorkflow) HandleClose(ctx context.Context, session ticketSession, interaction *discordgo.InteractionCreate) {
	channelID := interaction.ChannelID

	ticket, ok, err := t.store.ActiveTicketByChannel(ctx, channelID)
	if err != nil {
		t.logger.Error("ticket lookup failed", zap.String("channel", channelID), zap.Error(err))
		t.respond(session, interaction, "Something went wrong, try again later.")
		return
	}
	if !ok {
		t.respond(session, interaction, "This channel is not an open ticket.")
		return
	}

	settings, _, err := t.store.TicketSettings(ctx, ticket.GuildID)
	if err != nil {
		t.logger.Warn("ticket settings lookup failed", zap.String("guild", ticket.GuildID), zap.Error(err))
	}

	actor := interaction.Member.User
	if !t.mayClose(ticket, settings, interaction.Member) {
		t.respond(session, interaction, "Only the ticket owner or the moderator team can close this ticket.")
		return
	}

	t.respond(session, interaction, "Closing the ticket.")

	transcript, err := t.transcript(session, ticket.GuildID, channelID)
	if err != nil {
		t.logger.Warn("transcript collection failed", zap.String("channel", channelID), zap.Error(err))
	}

	if settings.LogChannelID != "" && transcript != "" {
		if _, err := session.Channel(settings.LogChannelID); err != nil {
			t.logger.Warn("ticket log channel missing at close",
				zap.String("log_channel", settings.LogChannelID), zap.Error(err))
		} else {
			closeEmbed := simpleEmbed("Ticket Closed",
				fmt.Sprintf("Ticket of <@%s> closed by <@%s>.", ticket.UserID, actor.ID), colorRed)
			send := &discordgo.MessageSend{
				Embeds: []*discordgo.MessageEmbed{closeEmbed},
				Files: []*discordgo.File{{
					Name:        fmt.Sprintf("transcript-%s.txt", channelID),
					ContentType: "text/plain",
					Reader:      strings.NewReader(transcript),
				}},
			}
			if _, err := session.ChannelMessageSendComplex(settings.LogChannelID, send); err != nil {
				t.logger.Warn("transcript upload failed", zap.String("log_channel", settings.LogChannelID), zap.Error(err))
			}
		}
	}

	if err := t.store.DeleteActiveTicket(ctx, channelID); err != nil {
		t.logger.Error("active ticket delete failed", zap.String("channel", channelID), zap.Error(err))
	}

	if _, err := session.ChannelMessageSend(channelID,
		fmt.Sprintf("This channel will be deleted in %d seconds.", int(t.grace.Seconds()))); err != nil {
		t.logger.Warn("close notice failed", zap.String("channel", channelID), zap.Error(err))
	}

	time.Sleep(t.grace)

	if _, err := session.ChannelDelete(channelID); err != nil {
		t.logger.Warn("ticket channel delete failed", zap.String("channel", channelID), zap.Error(err))
	}
	monitoring.TicketsClosed.Inc()
}

// mayClose allows the recorded ticket owner and holders of the configured
// moderator role.
func (t *ticketWorkflow) mayClose(ticket storage.ActiveTicket, settings storage.TicketSettings, member *discordgo.Member) bool {
	if member.User.ID == ticket.UserID {
		return true
	}
	if settings.ModeratorRoleID == "" {
		return false
	}
	for _, role := range member.Roles {
		if role == settings.ModeratorRoleID {
			return true
		}
	}
	return false
}

func (t *ticketWorkflow) roleExists(session ticketSession, guildID, roleID string) bool {
	roles, err := session.GuildRoles(guildID)
	if err != nil {
		t.logger.Warn("guild role listing failed", zap.String("guild", guildID), zap.Error(err))
		return false
	}
	for _, role := range roles {
		if role.ID == roleID {
			return true
		}
	}
	return false
}

// transcript fetches the full channel history, oldest first, and renders it
// as plain text.
func (t *ticketWorkflow) transcript(session ticketSession, guildID, channelID string) (string, error) {
	var all []*discordgo.Message
	before := ""
	for {
		batch, err := session.ChannelMessages(channelID, 100, before, "", "")
		if err != nil {
			return "", err
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		before = batch[len(batch)-1].ID
		if len(batch) < 100 {
			break
		}
	}

	// Display names are the guild nick when one is set, resolved once per
	// author.
	names := make(map[string]string)
	displayName := func(author *discordgo.User) string {
		if author == nil {
			return "unknown"
		}
		if name, ok := names[author.ID]; ok {
			return name
		}
		name := author.Username
		if member, err := session.GuildMember(guildID, author.ID); err == nil && member.Nick != "" {
			name = member.Nick
		}
		names[author.ID] = name
		return name
	}

	var sb strings.Builder
	// The API returns newest first.
	for i := len(all) - 1; i >= 0; i-- {
		msg := all[i]
		ts := msg.Timestamp.UTC().Format("2006-01-02 15:04:05")
		fmt.Fprintf(&sb, "[%s] %s: %s\n", ts, displayName(msg.Author), msg.Content)
		for _, attachment := range msg.Attachments {
			fmt.Fprintf(&sb, "[attachment: %s]\n", attachment.URL)
		}
	}
	return sb.String(), nil
}

// PostPanel publishes the create-ticket button message in the given channel.
func (t *ticketWorkflow) PostPanel(session ticketSession, channelID string) error {
	panel := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Need help?",
			Description: "Press the button below to open a private support ticket.",
			Color:       colorDefault,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Create Ticket",
						Style:    discordgo.PrimaryButton,
						CustomID: createTicketButtonID,
						Emoji:    discordgo.ComponentEmoji{Name: "✉️"},
					},
				},
			},
		},
	}
	_, err := session.ChannelMessageSendComplex(channelID, panel)
	return err
}

func (t *ticketWorkflow) respond(session ticketSession, interaction *discordgo.InteractionCreate, content string) {
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		t.logger.Warn("interaction response failed", zap.Error(err))
	}
}

const ticketMemberPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionEmbedLinks |
	discordgo.PermissionAttachFiles
