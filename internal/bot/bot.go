package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"embedium/internal/config"
	"embedium/internal/monitoring"
	"embedium/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Bot struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *storage.Store
	session  *discordgo.Session
	gate     *gatekeeper
	tickets  *ticketWorkflow
	commands map[string]*command
	order    []*command
	started  time.Time
	done     chan struct{}
	stopOnce sync.Once
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	// Members, presences and message content are privileged; the rest covers
	// the gateway events the handlers consume.
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildPresences |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		session: session,
		done:    make(chan struct{}),
	}
	b.gate = &gatekeeper{store: store, ownerID: cfg.OwnerID}
	b.tickets = newTicketWorkflow(store, logger, closeGracePeriod)
	b.registerCommands()

	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onGuildMemberAdd)
	b.session.AddHandler(b.onGuildMemberRemove)
	b.session.AddHandler(b.onMessageReactionAdd)
	b.session.AddHandler(b.onMessageReactionRemove)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}
	b.started = time.Now()
	return nil
}

// Done is closed when the owner issues the shutdown command.
func (b *Bot) Done() <-chan struct{} {
	return b.done
}

func (b *Bot) requestShutdown() {
	b.stopOnce.Do(func() { close(b.done) })
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	if b.session != nil {
		_ = b.session.Close()
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.tickets.botID = session.State.User.ID

	if err := session.UpdateGameStatus(0, b.cfg.Presence); err != nil {
		b.logger.Warn("presence update failed", zap.Error(err))
	}

	// The create-ticket button dispatches on its constant custom ID, so
	// panels posted before a restart keep working without re-registration.
	// Report which guilds have one armed.
	configured, err := b.store.ListTicketSettings(context.Background())
	if err != nil {
		b.logger.Warn("ticket settings listing failed", zap.Error(err))
	}
	b.logger.Info("discord ready",
		zap.String("user", session.State.User.Username),
		zap.Int("guilds", len(event.Guilds)),
		zap.Int("ticket_guilds", len(configured)),
	)
}

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.Author.Bot {
		return
	}
	if msg.GuildID == "" {
		return
	}
	if !strings.HasPrefix(msg.Content, b.cfg.Prefix) {
		return
	}
	monitoring.DiscordEvents.WithLabelValues("message_create").Inc()

	fields := strings.Fields(strings.TrimPrefix(msg.Content, b.cfg.Prefix))
	if len(fields) == 0 {
		return
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]
	ctx := context.Background()

	cmd, ok := b.commands[name]
	if !ok {
		b.handleUnknownCommand(ctx, msg)
		return
	}

	if cmd.ownerOnly && msg.Author.ID != b.cfg.OwnerID {
		b.reply(msg.ChannelID, "That command is reserved for the bot owner.")
		return
	}

	if cmd.gated {
		allowed, err := b.gate.allowLock(ctx, msg.Author.ID)
		if err != nil {
			b.logger.Error("lock gate check failed", zap.Error(err))
			b.reply(msg.ChannelID, "Something went wrong, try again later.")
			return
		}
		if !allowed {
			monitoring.GateDenials.WithLabelValues("lock").Inc()
			b.reply(msg.ChannelID, lockDeniedMessage)
			return
		}

		allowed, err = b.gate.allowChannel(ctx, msg.Author.ID, msg.ChannelID)
		if err != nil {
			b.logger.Error("silent gate check failed", zap.Error(err))
			b.reply(msg.ChannelID, "Something went wrong, try again later.")
			return
		}
		if !allowed {
			monitoring.GateDenials.WithLabelValues("silent_channel").Inc()
			b.reply(msg.ChannelID, silentDeniedMessage)
			return
		}
	}

	if cmd.perm != 0 && !b.authorHasPermission(session, msg, cmd.perm) {
		b.reply(msg.ChannelID, "You do not have permission to use that command.")
		return
	}

	monitoring.CommandsHandled.WithLabelValues(cmd.name).Inc()
	cmd.run(b, ctx, session, msg, args)
}

// handleUnknownCommand hides the existence of the lock: while locked,
// non-owners get no reply at all instead of the usual hint.
func (b *Bot) handleUnknownCommand(ctx context.Context, msg *discordgo.MessageCreate) {
	locked, err := b.store.IsLocked(ctx)
	if err != nil {
		b.logger.Warn("lock lookup failed", zap.Error(err))
	}
	if locked && msg.Author.ID != b.cfg.OwnerID {
		return
	}
	b.reply(msg.ChannelID, fmt.Sprintf("Unknown command. Try `%shelp`.", b.cfg.Prefix))
}

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionMessageComponent {
		return
	}
	monitoring.DiscordEvents.WithLabelValues("interaction_create").Inc()

	ctx := context.Background()
	switch interaction.MessageComponentData().CustomID {
	case createTicketButtonID:
		b.tickets.HandleCreate(ctx, session, interaction)
	case closeTicketButtonID:
		b.tickets.HandleClose(ctx, session, interaction)
	}
}

func (b *Bot) authorHasPermission(session *discordgo.Session, msg *discordgo.MessageCreate, perm int64) bool {
	perms, err := session.State.UserChannelPermissions(msg.Author.ID, msg.ChannelID)
	if err != nil {
		perms, err = session.UserChannelPermissions(msg.Author.ID, msg.ChannelID)
		if err != nil {
			b.logger.Warn("permission resolution failed",
				zap.String("user", msg.Author.ID),
				zap.String("channel", msg.ChannelID),
				zap.Error(err),
			)
			return false
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&perm == perm
}

func (b *Bot) reply(channelID, content string) {
	if _, err := b.session.ChannelMessageSend(channelID, content); err != nil {
		b.logger.Warn("reply failed", zap.String("channel", channelID), zap.Error(err))
	}
}

func (b *Bot) replyEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.logger.Warn("embed reply failed", zap.String("channel", channelID), zap.Error(err))
	}
}
