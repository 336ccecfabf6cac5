package giveaways

import (
	"context"
	"errors"
	"time"

	"npnbot/bot/common"
	"npnbot/models"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleStart handles the /gstart command
func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to start giveaways.")
		return
	}

	var durationStr, prize string
	winners := 1
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "duration":
			durationStr = opt.StringValue()
		case "winners":
			winners = int(opt.IntValue())
		case "prize":
			prize = opt.StringValue()
		}
	}

	duration, err := common.ParseDuration(durationStr)
	if err != nil {
		common.RespondWithError(s, i, "Invalid duration. Use forms like 30s, 10m, 2h, or 1d.")
		return
	}
	if winners < 1 {
		common.RespondWithError(s, i, "Winners must be at least 1.")
		return
	}

	endTime := time.Now().UTC().Add(duration)

	// Post the announcement first; its message ID keys the giveaway
	message, err := s.ChannelMessageSendEmbed(i.ChannelID, announcementEmbed(prize, winners, endTime))
	if err != nil {
		log.Errorf("Failed to post giveaway announcement: %v", err)
		common.RespondWithError(s, i, "Failed to post the giveaway. Please try again.")
		return
	}

	if err := s.MessageReactionAdd(i.ChannelID, message.ID, EntryEmoji); err != nil {
		log.Errorf("Failed to seed giveaway reaction: %v", err)
	}

	giveaway := &models.Giveaway{
		GuildID:      common.ParseSnowflake(i.GuildID),
		ChannelID:    common.ParseSnowflake(i.ChannelID),
		MessageID:    common.ParseSnowflake(message.ID),
		Prize:        prize,
		WinnersCount: winners,
		HostID:       common.ParseSnowflake(i.Member.User.ID),
		EndTime:      &endTime,
	}

	if err := f.giveawayService.Start(context.Background(), giveaway); err != nil {
		log.Errorf("Failed to record giveaway: %v", err)
		// Remove the orphaned announcement so nobody enters a dead giveaway
		if err := s.ChannelMessageDelete(i.ChannelID, message.ID); err != nil {
			log.Errorf("Failed to delete orphaned giveaway announcement: %v", err)
		}
		common.RespondWithError(s, i, "Failed to start the giveaway. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "Giveaway started!", true); err != nil {
		log.Errorf("Failed to respond to gstart command: %v", err)
	}
}

// handleEnd handles the /gend command
func (f *Feature) handleEnd(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to end giveaways.")
		return
	}

	messageID := messageIDOption(i)
	if messageID == 0 {
		common.RespondWithError(s, i, "Invalid message ID.")
		return
	}

	result, err := f.giveawayService.EndEarly(context.Background(), messageID)
	if errors.Is(err, service.ErrNoActiveGiveaway) {
		common.RespondWithError(s, i, "No active giveaway found for that message.")
		return
	}
	if err != nil {
		log.Errorf("Failed to end giveaway %d: %v", messageID, err)
		common.RespondWithError(s, i, "Failed to end the giveaway. Please try again.")
		return
	}
	if result == nil {
		common.RespondWithError(s, i, "That giveaway's announcement no longer exists.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "Giveaway ended.", true); err != nil {
		log.Errorf("Failed to respond to gend command: %v", err)
	}
}

// handleReroll handles the /greroll command
func (f *Feature) handleReroll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to reroll giveaways.")
		return
	}

	messageID := messageIDOption(i)
	if messageID == 0 {
		common.RespondWithError(s, i, "Invalid message ID.")
		return
	}

	result, err := f.giveawayService.Reroll(context.Background(), messageID)
	if errors.Is(err, service.ErrNoEndedGiveaway) {
		common.RespondWithError(s, i, "No ended giveaway found for that message. End it first with /gend.")
		return
	}
	if err != nil {
		log.Errorf("Failed to reroll giveaway %d: %v", messageID, err)
		common.RespondWithError(s, i, "Failed to reroll the giveaway. Please try again.")
		return
	}

	if !result.HasWinners() {
		common.RespondWithError(s, i, "Nobody entered that giveaway, so there is nothing to reroll.")
		return
	}

	content := "🎉 New winner(s) for **" + result.Giveaway.Prize + "**: " + common.FormatMentions(result.WinnerIDs)
	if _, err := s.ChannelMessageSend(common.Snowflake(result.Giveaway.ChannelID), content); err != nil {
		log.Errorf("Failed to announce reroll result: %v", err)
	}

	if err := common.RespondWithSuccess(s, i, "Giveaway rerolled.", true); err != nil {
		log.Errorf("Failed to respond to greroll command: %v", err)
	}
}

func messageIDOption(i *discordgo.InteractionCreate) int64 {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "message_id" {
			return common.ParseSnowflake(opt.StringValue())
		}
	}
	return 0
}
