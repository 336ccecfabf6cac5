package donations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"npnbot/bot/common"
	"npnbot/models"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const listLimit = 10

// Feature handles donation announcement commands
type Feature struct {
	session         *discordgo.Session
	donationService service.DonationService
}

// NewFeature creates a new donations feature
func NewFeature(session *discordgo.Session, donationService service.DonationService) *Feature {
	return &Feature{
		session:         session,
		donationService: donationService,
	}
}

// HandleCommand routes donation slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "donation":
		f.handlePost(s, i)
	case "editdonation":
		f.handleEdit(s, i)
	case "listdonations":
		f.handleList(s, i)
	}
}

// handlePost handles the /donation command
func (f *Feature) handlePost(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to post donation announcements.")
		return
	}

	var channel *discordgo.Channel
	var title, content, goal string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "channel":
			channel = opt.ChannelValue(s)
		case "title":
			title = opt.StringValue()
		case "content":
			content = opt.StringValue()
		case "goal":
			goal = opt.StringValue()
		}
	}
	if channel == nil {
		common.RespondWithError(s, i, "Invalid channel.")
		return
	}
	if content == "" {
		common.RespondWithError(s, i, "The donation content cannot be empty.")
		return
	}

	message, err := s.ChannelMessageSendEmbed(channel.ID, donationEmbed(title, content, goal))
	if err != nil {
		log.Errorf("Failed to post donation announcement: %v", err)
		common.RespondWithError(s, i, "Failed to post the announcement. Please try again.")
		return
	}

	donation := &models.Donation{
		GuildID:   common.ParseSnowflake(i.GuildID),
		ChannelID: common.ParseSnowflake(channel.ID),
		MessageID: common.ParseSnowflake(message.ID),
		Content:   content,
	}

	if err := f.donationService.Record(context.Background(), donation); err != nil {
		log.Errorf("Failed to record donation announcement: %v", err)
		if err := s.ChannelMessageDelete(channel.ID, message.ID); err != nil {
			log.Errorf("Failed to delete orphaned donation announcement: %v", err)
		}
		common.RespondWithError(s, i, "Failed to record the announcement. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "Donation announcement posted in "+channel.Mention()+".", true); err != nil {
		log.Errorf("Failed to respond to donation command: %v", err)
	}
}

// handleEdit handles the /editdonation command
func (f *Feature) handleEdit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to edit donation announcements.")
		return
	}

	var messageIDStr, content string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "message_id":
			messageIDStr = opt.StringValue()
		case "content":
			content = opt.StringValue()
		}
	}

	messageID := common.ParseSnowflake(messageIDStr)
	if messageID == 0 {
		common.RespondWithError(s, i, "Invalid message ID.")
		return
	}
	if content == "" {
		common.RespondWithError(s, i, "The donation content cannot be empty.")
		return
	}

	donation, err := f.donationService.Edit(context.Background(), messageID, content)
	if errors.Is(err, service.ErrNoDonation) {
		common.RespondWithError(s, i, "No donation announcement found for that message.")
		return
	}
	if err != nil {
		log.Errorf("Failed to edit donation announcement: %v", err)
		common.RespondWithError(s, i, "Failed to edit the announcement. Please try again.")
		return
	}

	channel := common.Snowflake(donation.ChannelID)
	if _, err := s.ChannelMessageEditEmbed(channel, messageIDStr, donationEmbed("", donation.Content, "")); err != nil {
		log.Errorf("Failed to update donation message %d: %v", messageID, err)
	}

	if err := common.RespondWithSuccess(s, i, "Donation announcement updated.", true); err != nil {
		log.Errorf("Failed to respond to editdonation command: %v", err)
	}
}

// handleList handles the /listdonations command
func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	donations, err := f.donationService.List(context.Background(), common.ParseSnowflake(i.GuildID), listLimit)
	if err != nil {
		log.Errorf("Failed to list donation announcements: %v", err)
		common.RespondWithError(s, i, "Failed to list the announcements. Please try again.")
		return
	}
	if len(donations) == 0 {
		common.RespondWithError(s, i, "No donation announcements in this server.")
		return
	}

	var lines []string
	for _, donation := range donations {
		content := donation.Content
		if len(content) > 80 {
			content = content[:77] + "..."
		}
		lines = append(lines, fmt.Sprintf("%s in <#%d>: %s",
			common.FormatDiscordTimestamp(donation.CreatedAt, "d"),
			donation.ChannelID,
			content))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "💝 Recent donation announcements",
		Color:       common.ColorInfo,
		Description: strings.Join(lines, "\n"),
	}

	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Failed to respond to listdonations command: %v", err)
	}
}

func donationEmbed(title, content, goal string) *discordgo.MessageEmbed {
	if title == "" {
		title = "Donations"
	}
	embed := &discordgo.MessageEmbed{
		Title:       "💝 " + title,
		Color:       common.ColorPrimary,
		Description: content,
	}
	if goal != "" {
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:   "Goal",
				Value:  goal,
				Inline: true,
			},
		}
	}
	return embed
}
