package polls

import (
	"context"
	"errors"
	"strings"
	"time"

	"npnbot/bot/common"
	"npnbot/models"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleCreate handles the /poll command
func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var question, optionsStr, durationStr string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "question":
			question = opt.StringValue()
		case "options":
			optionsStr = opt.StringValue()
		case "duration":
			durationStr = opt.StringValue()
		}
	}

	options := splitOptions(optionsStr)
	if len(options) < 2 {
		common.RespondWithError(s, i, "A poll needs at least 2 options, separated by semicolons.")
		return
	}
	if len(options) > models.MaxPollOptions {
		common.RespondWithError(s, i, "A poll supports at most 10 options.")
		return
	}

	var endTime *time.Time
	if durationStr != "" {
		duration, err := common.ParseDuration(durationStr)
		if err != nil {
			common.RespondWithError(s, i, "Invalid duration. Use forms like 30s, 10m, 2h, or 1d.")
			return
		}
		t := time.Now().UTC().Add(duration)
		endTime = &t
	}

	message, err := s.ChannelMessageSendEmbed(i.ChannelID, pollEmbed(question, options, endTime))
	if err != nil {
		log.Errorf("Failed to post poll: %v", err)
		common.RespondWithError(s, i, "Failed to post the poll. Please try again.")
		return
	}

	for index := range options {
		if err := s.MessageReactionAdd(i.ChannelID, message.ID, NumberEmojis[index]); err != nil {
			log.Errorf("Failed to seed poll reaction %s: %v", NumberEmojis[index], err)
		}
	}

	poll := &models.Poll{
		GuildID:   common.ParseSnowflake(i.GuildID),
		ChannelID: common.ParseSnowflake(i.ChannelID),
		MessageID: common.ParseSnowflake(message.ID),
		Question:  question,
		Options:   options,
		CreatorID: common.ParseSnowflake(i.Member.User.ID),
		EndTime:   endTime,
	}

	if err := f.pollService.Create(context.Background(), poll); err != nil {
		log.Errorf("Failed to record poll: %v", err)
		if err := s.ChannelMessageDelete(i.ChannelID, message.ID); err != nil {
			log.Errorf("Failed to delete orphaned poll message: %v", err)
		}
		common.RespondWithError(s, i, "Failed to create the poll. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "Poll created!", true); err != nil {
		log.Errorf("Failed to respond to poll command: %v", err)
	}
}

// handleEnd handles the /endpoll command
func (f *Feature) handleEnd(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to end polls.")
		return
	}

	var messageID int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "message_id" {
			messageID = common.ParseSnowflake(opt.StringValue())
		}
	}
	if messageID == 0 {
		common.RespondWithError(s, i, "Invalid message ID.")
		return
	}

	_, err := f.pollService.EndEarly(context.Background(), messageID)
	if errors.Is(err, service.ErrNoActivePoll) {
		common.RespondWithError(s, i, "No active poll found for that message.")
		return
	}
	if err != nil {
		log.Errorf("Failed to end poll %d: %v", messageID, err)
		common.RespondWithError(s, i, "Failed to end the poll. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "Poll ended.", true); err != nil {
		log.Errorf("Failed to respond to endpoll command: %v", err)
	}
}

// splitOptions parses the semicolon-separated option list, dropping blanks
func splitOptions(input string) []string {
	var options []string
	for _, part := range strings.Split(input, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	return options
}
