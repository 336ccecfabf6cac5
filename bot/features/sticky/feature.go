package sticky

import (
	"context"
	"errors"

	"npnbot/bot/common"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles sticky message commands and reposting
type Feature struct {
	session       *discordgo.Session
	stickyService service.StickyService
}

// NewFeature creates a new sticky message feature
func NewFeature(session *discordgo.Session, stickyService service.StickyService) *Feature {
	return &Feature{
		session:       session,
		stickyService: stickyService,
	}
}

// HandleCommand routes sticky slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "sticky":
		f.handleSet(s, i)
	case "unsticky":
		f.handleRemove(s, i)
	}
}

// HandleMessage keeps the sticky at the bottom of its channel. Called for
// every non-bot message; channels without a sticky return immediately.
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	channelID := common.ParseSnowflake(m.ChannelID)
	if channelID == 0 {
		return
	}

	ctx := context.Background()
	stickyMsg, err := f.stickyService.Current(ctx, channelID)
	if err != nil {
		log.Errorf("Failed to load sticky for channel %s: %v", m.ChannelID, err)
		return
	}
	if stickyMsg == nil {
		return
	}

	if stickyMsg.LastMessageID != nil {
		if err := s.ChannelMessageDelete(m.ChannelID, common.Snowflake(*stickyMsg.LastMessageID)); err != nil {
			log.Debugf("Failed to delete previous sticky copy: %v", err)
		}
	}

	posted, err := s.ChannelMessageSendEmbed(m.ChannelID, stickyEmbed(stickyMsg.Content))
	if err != nil {
		log.Errorf("Failed to repost sticky in channel %s: %v", m.ChannelID, err)
		return
	}

	if err := f.stickyService.RecordRepost(ctx, channelID, common.ParseSnowflake(posted.ID)); err != nil {
		log.Errorf("Failed to record sticky repost: %v", err)
	}
}

// handleSet handles the /sticky command
func (f *Feature) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to manage sticky messages.")
		return
	}

	var content string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "message" {
			content = opt.StringValue()
		}
	}
	if content == "" {
		common.RespondWithError(s, i, "The sticky message cannot be empty.")
		return
	}

	guildID := common.ParseSnowflake(i.GuildID)
	channelID := common.ParseSnowflake(i.ChannelID)

	if err := f.stickyService.Set(context.Background(), guildID, channelID, content); err != nil {
		log.Errorf("Failed to set sticky: %v", err)
		common.RespondWithError(s, i, "Failed to set the sticky message. Please try again.")
		return
	}

	posted, err := s.ChannelMessageSendEmbed(i.ChannelID, stickyEmbed(content))
	if err != nil {
		log.Errorf("Failed to post sticky: %v", err)
	} else if err := f.stickyService.RecordRepost(context.Background(), channelID, common.ParseSnowflake(posted.ID)); err != nil {
		log.Errorf("Failed to record sticky post: %v", err)
	}

	if err := common.RespondWithSuccess(s, i, "Sticky message set for this channel.", true); err != nil {
		log.Errorf("Failed to respond to sticky command: %v", err)
	}
}

// handleRemove handles the /unsticky command
func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to manage sticky messages.")
		return
	}

	removed, err := f.stickyService.Remove(context.Background(), common.ParseSnowflake(i.ChannelID))
	if errors.Is(err, service.ErrNoSticky) {
		common.RespondWithError(s, i, "This channel has no sticky message.")
		return
	}
	if err != nil {
		log.Errorf("Failed to remove sticky: %v", err)
		common.RespondWithError(s, i, "Failed to remove the sticky message. Please try again.")
		return
	}

	if removed.LastMessageID != nil {
		if err := s.ChannelMessageDelete(i.ChannelID, common.Snowflake(*removed.LastMessageID)); err != nil {
			log.Debugf("Failed to delete sticky copy: %v", err)
		}
	}

	if err := common.RespondWithSuccess(s, i, "Sticky message removed.", true); err != nil {
		log.Errorf("Failed to respond to unsticky command: %v", err)
	}
}

func stickyEmbed(content string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📌 Sticky message",
		Color:       common.ColorWarning,
		Description: content,
	}
}
