package bot

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"npnbot/bot/common"
	"npnbot/bot/features/afk"
	"npnbot/bot/features/announcements"
	"npnbot/bot/features/antispam"
	"npnbot/bot/features/donations"
	"npnbot/bot/features/giveaways"
	"npnbot/bot/features/polls"
	"npnbot/bot/features/reactionroles"
	"npnbot/bot/features/sticky"
	"npnbot/bot/features/tickets"
	"npnbot/bot/features/welcome"
	"npnbot/events"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Prefix string
}

// Features bundles every feature handler the bot dispatches to
type Features struct {
	Tickets       *tickets.Feature
	Giveaways     *giveaways.Feature
	Polls         *polls.Feature
	ReactionRoles *reactionroles.Feature
	Antispam      *antispam.Feature
	Sticky        *sticky.Feature
	AFK           *afk.Feature
	Welcome       *welcome.Feature
	Announcements *announcements.Feature
	Donations     *donations.Feature
}

type Bot struct {
	config          Config
	session         *discordgo.Session
	features        Features
	antispamService service.AntispamService
	eventBus        *events.Bus
}

// New wires the bot onto an already created session, opens the gateway
// connection, and registers the slash commands. The caller owns the session's
// construction so feature adapters can be built against it first.
func New(config Config, session *discordgo.Session, features Features, antispamService service.AntispamService, eventBus *events.Bus) (*Bot, error) {
	session.Identify.Intents = discordgo.IntentsAllWithoutPrivileged |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	bot := &Bot{
		config:          config,
		session:         session,
		features:        features,
		antispamService: antispamService,
		eventBus:        eventBus,
	}

	session.AddHandler(bot.handleReady)
	session.AddHandler(bot.handleCommands)
	session.AddHandler(bot.handleMessageCreate)
	session.AddHandler(bot.handleReactionAdd)
	session.AddHandler(bot.handleReactionRemove)
	session.AddHandler(bot.handleMemberAdd)
	session.AddHandler(bot.handleMemberRemove)
	session.AddHandler(bot.handleGuildCreate)

	// Open websocket connection
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		session.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Infof("Logged in as %s, serving %d guilds", r.User.Username, len(r.Guilds))

	if err := s.UpdateWatchStatus(0, fmt.Sprintf("%d servers", len(r.Guilds))); err != nil {
		log.Errorf("Failed to set presence: %v", err)
	}

	// Gateway resume loses in-flight message timing; start the spam
	// counters fresh
	b.antispamService.Reset()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "ticket", "closeticket":
		b.features.Tickets.HandleCommand(s, i)
	case "gstart", "gend", "greroll":
		b.features.Giveaways.HandleCommand(s, i)
	case "poll", "endpoll":
		b.features.Polls.HandleCommand(s, i)
	case "reactionrole", "removereactionrole":
		b.features.ReactionRoles.HandleCommand(s, i)
	case "antispam":
		b.features.Antispam.HandleCommand(s, i)
	case "sticky", "unsticky":
		b.features.Sticky.HandleCommand(s, i)
	case "afk", "removeafk":
		b.features.AFK.HandleCommand(s, i)
	case "setwelcome", "setleave", "testwelcome":
		b.features.Welcome.HandleCommand(s, i)
	case "announce":
		b.features.Announcements.HandleCommand(s, i)
	case "donation", "editdonation", "listdonations":
		b.features.Donations.HandleCommand(s, i)
	}
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	// Screening runs first so a spammer's prefix commands get caught too
	b.features.Antispam.HandleMessage(s, m)
	b.features.Sticky.HandleMessage(s, m)
	b.features.AFK.HandleMessage(s, m)

	if strings.HasPrefix(m.Content, b.config.Prefix) {
		b.handleTextCommand(s, m)
	}
}

// handleTextCommand dispatches the legacy prefix commands
func (b *Bot) handleTextCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	trimmed := strings.TrimPrefix(m.Content, b.config.Prefix)
	name, args, _ := strings.Cut(trimmed, " ")

	switch strings.ToLower(name) {
	case "ticket":
		b.features.Tickets.HandleTextCommand(s, m, strings.TrimSpace(args))
	case "announce":
		b.features.Announcements.HandleTextCommand(s, m, strings.TrimSpace(args))
	}
}

func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	b.features.Polls.HandleReactionAdd(s, r)
	b.features.ReactionRoles.HandleReactionAdd(s, r)
}

func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}

	b.features.ReactionRoles.HandleReactionRemove(s, r)
}

func (b *Bot) handleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	b.features.Welcome.HandleMemberAdd(s, m)
}

func (b *Bot) handleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	b.features.Welcome.HandleMemberRemove(s, m)
}

// handleGuildCreate greets a newly joined guild in its system channel
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Unavailable || g.SystemChannelID == "" {
		return
	}
	// GuildCreate also fires for every existing guild on connect; only a
	// recent join timestamp means the bot was actually added
	if time.Since(g.JoinedAt) > time.Minute {
		return
	}

	common.SendChannelEmbed(s, g.SystemChannelID, &discordgo.MessageEmbed{
		Title:       "👋 Thanks for adding me!",
		Color:       common.ColorPrimary,
		Description: "Use /ticket to open a support ticket, /poll to run a vote, or /gstart to start a giveaway. Admins can configure welcome messages, anti-spam, and more.",
	})
}
