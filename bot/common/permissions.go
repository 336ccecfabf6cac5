package common

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// IsUserAdmin checks whether the user holds administrator permissions in the
// guild, either as the owner or through a role.
func IsUserAdmin(s *discordgo.Session, guildID, userID string) bool {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			log.Errorf("Failed to fetch guild %s: %v", guildID, err)
			return false
		}
	}

	if guild.OwnerID == userID {
		return true
	}

	member, err := s.State.Member(guildID, userID)
	if err != nil {
		member, err = s.GuildMember(guildID, userID)
		if err != nil {
			log.Errorf("Failed to fetch member %s in guild %s: %v", userID, guildID, err)
			return false
		}
	}

	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID && role.Permissions&discordgo.PermissionAdministrator != 0 {
				return true
			}
		}
	}

	return false
}

// IsInteractionAdmin checks administrator permissions using the permission
// bits Discord attaches to the interaction itself
func IsInteractionAdmin(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	return i.Member.Permissions&discordgo.PermissionAdministrator != 0
}
