package reactionroles

import (
	"context"

	"npnbot/bot/common"
	"npnbot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleBind handles the /reactionrole command
func (f *Feature) handleBind(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to manage reaction roles.")
		return
	}

	var messageIDStr, emoji string
	var role *discordgo.Role
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "message_id":
			messageIDStr = opt.StringValue()
		case "emoji":
			emoji = opt.StringValue()
		case "role":
			role = opt.RoleValue(s, i.GuildID)
		}
	}

	messageID := common.ParseSnowflake(messageIDStr)
	if messageID == 0 {
		common.RespondWithError(s, i, "Invalid message ID.")
		return
	}
	if role == nil {
		common.RespondWithError(s, i, "Invalid role.")
		return
	}

	binding := &models.ReactionRole{
		MessageID: messageID,
		Emoji:     emoji,
		RoleID:    common.ParseSnowflake(role.ID),
		GuildID:   common.ParseSnowflake(i.GuildID),
	}

	if err := f.reactionRoleService.Bind(context.Background(), binding); err != nil {
		log.Errorf("Failed to bind reaction role: %v", err)
		common.RespondWithError(s, i, "Failed to set up the reaction role. Please try again.")
		return
	}

	// Seed the reaction so members have something to click
	if err := s.MessageReactionAdd(i.ChannelID, messageIDStr, emoji); err != nil {
		log.Errorf("Failed to seed reaction role emoji: %v", err)
	}

	if err := common.RespondWithSuccess(s, i, "Reaction role set up: "+emoji+" grants "+role.Mention()+".", true); err != nil {
		log.Errorf("Failed to respond to reactionrole command: %v", err)
	}
}

// handleUnbind handles the /removereactionrole command
func (f *Feature) handleUnbind(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to manage reaction roles.")
		return
	}

	var messageIDStr, emoji string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "message_id":
			messageIDStr = opt.StringValue()
		case "emoji":
			emoji = opt.StringValue()
		}
	}

	messageID := common.ParseSnowflake(messageIDStr)
	if messageID == 0 {
		common.RespondWithError(s, i, "Invalid message ID.")
		return
	}

	removed, err := f.reactionRoleService.Unbind(context.Background(), messageID, emoji)
	if err != nil {
		log.Errorf("Failed to unbind reaction role: %v", err)
		common.RespondWithError(s, i, "Failed to remove the reaction role. Please try again.")
		return
	}
	if !removed {
		common.RespondWithError(s, i, "No reaction role found for that message and emoji.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "Reaction role removed.", true); err != nil {
		log.Errorf("Failed to respond to removereactionrole command: %v", err)
	}
}
