package antispam

import (
	"context"
	"fmt"
	"time"

	"npnbot/bot/common"
	"npnbot/models"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const muteDuration = 5 * time.Minute

// Feature handles the antispam command and message screening
type Feature struct {
	session         *discordgo.Session
	antispamService service.AntispamService
}

// NewFeature creates a new antispam feature
func NewFeature(session *discordgo.Session, antispamService service.AntispamService) *Feature {
	return &Feature{
		session:         session,
		antispamService: antispamService,
	}
}

// HandleCommand routes antispam slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.ApplicationCommandData().Name == "antispam" {
		f.handleConfigure(s, i)
	}
}

// HandleMessage screens one message and acts on a spam verdict. Bots and
// admins are exempt.
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	if common.IsUserAdmin(s, m.GuildID, m.Author.ID) {
		return
	}

	guildID := common.ParseSnowflake(m.GuildID)
	userID := common.ParseSnowflake(m.Author.ID)
	if guildID == 0 || userID == 0 {
		return
	}

	verdict, err := f.antispamService.CheckMessage(context.Background(), guildID, userID, m.Content, time.Now().UTC())
	if err != nil {
		log.Errorf("Failed to screen message for spam: %v", err)
		return
	}
	if verdict == nil {
		return
	}

	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		log.Errorf("Failed to delete spam message: %v", err)
	}

	f.act(s, m, verdict)
}

func (f *Feature) act(s *discordgo.Session, m *discordgo.MessageCreate, verdict *service.SpamVerdict) {
	switch verdict.Action {
	case models.SpamActionWarn:
		content := fmt.Sprintf("⚠️ %s, slow down. %s.", m.Author.Mention(), verdict.Reason)
		if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
			log.Errorf("Failed to send spam warning: %v", err)
		}

	case models.SpamActionMute:
		until := time.Now().UTC().Add(muteDuration)
		if err := s.GuildMemberTimeout(m.GuildID, m.Author.ID, &until); err != nil {
			log.Errorf("Failed to mute spammer %s: %v", m.Author.ID, err)
			return
		}
		content := fmt.Sprintf("🔇 %s has been muted for %s. %s.", m.Author.Mention(), muteDuration, verdict.Reason)
		if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
			log.Errorf("Failed to announce mute: %v", err)
		}

	case models.SpamActionKick:
		if err := s.GuildMemberDeleteWithReason(m.GuildID, m.Author.ID, verdict.Reason); err != nil {
			log.Errorf("Failed to kick spammer %s: %v", m.Author.ID, err)
			return
		}
		content := fmt.Sprintf("👢 %s has been kicked. %s.", m.Author.Username, verdict.Reason)
		if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
			log.Errorf("Failed to announce kick: %v", err)
		}
	}
}

// handleConfigure handles the /antispam command
func (f *Feature) handleConfigure(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to configure anti-spam.")
		return
	}

	config := &models.AntispamConfig{
		GuildID:           common.ParseSnowflake(i.GuildID),
		MaxMessages:       5,
		TimeWindowSeconds: 5,
		Action:            models.SpamActionMute,
	}
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "enabled":
			config.Enabled = opt.BoolValue()
		case "max_messages":
			config.MaxMessages = int(opt.IntValue())
		case "time_window":
			config.TimeWindowSeconds = int(opt.IntValue())
		case "action":
			config.Action = models.SpamAction(opt.StringValue())
		}
	}

	if err := f.antispamService.Configure(context.Background(), config); err != nil {
		log.Errorf("Failed to configure anti-spam: %v", err)
		common.RespondWithError(s, i, "Failed to save anti-spam settings. Check the limits and action.")
		return
	}

	state := "disabled"
	if config.Enabled {
		state = fmt.Sprintf("enabled: more than %d messages in %ds gets action %q", config.MaxMessages, config.TimeWindowSeconds, config.Action)
	}
	if err := common.RespondWithSuccess(s, i, "Anti-spam "+state+".", true); err != nil {
		log.Errorf("Failed to respond to antispam command: %v", err)
	}
}
