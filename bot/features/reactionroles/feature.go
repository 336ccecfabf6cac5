package reactionroles

import (
	"context"

	"npnbot/bot/common"
	"npnbot/models"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles reaction role commands and the role grants themselves
type Feature struct {
	session             *discordgo.Session
	reactionRoleService service.ReactionRoleService
}

// NewFeature creates a new reaction roles feature
func NewFeature(session *discordgo.Session, reactionRoleService service.ReactionRoleService) *Feature {
	return &Feature{
		session:             session,
		reactionRoleService: reactionRoleService,
	}
}

// HandleCommand routes reaction role slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "reactionrole":
		f.handleBind(s, i)
	case "removereactionrole":
		f.handleUnbind(s, i)
	}
}

// HandleReactionAdd grants the bound role, if any
func (f *Feature) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	binding := f.lookup(r.MessageID, r.Emoji.Name)
	if binding == nil {
		return
	}

	if err := s.GuildMemberRoleAdd(r.GuildID, r.UserID, common.Snowflake(binding.RoleID)); err != nil {
		log.Errorf("Failed to grant role %d to user %s: %v", binding.RoleID, r.UserID, err)
	}
}

// HandleReactionRemove revokes the bound role, if any
func (f *Feature) HandleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	binding := f.lookup(r.MessageID, r.Emoji.Name)
	if binding == nil {
		return
	}

	if err := s.GuildMemberRoleRemove(r.GuildID, r.UserID, common.Snowflake(binding.RoleID)); err != nil {
		log.Errorf("Failed to revoke role %d from user %s: %v", binding.RoleID, r.UserID, err)
	}
}

func (f *Feature) lookup(messageID, emoji string) *models.ReactionRole {
	id := common.ParseSnowflake(messageID)
	if id == 0 || emoji == "" {
		return nil
	}

	binding, err := f.reactionRoleService.Lookup(context.Background(), id, emoji)
	if err != nil {
		log.Errorf("Failed to look up reaction role for message %s: %v", messageID, err)
		return nil
	}
	return binding
}
