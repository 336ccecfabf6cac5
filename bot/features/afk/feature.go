package afk

import (
	"context"
	"fmt"
	"strings"

	"npnbot/bot/common"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const nickPrefix = "[AFK] "

// Feature handles AFK commands and the mention notices
type Feature struct {
	session    *discordgo.Session
	afkService service.AFKService
}

// NewFeature creates a new AFK feature
func NewFeature(session *discordgo.Session, afkService service.AFKService) *Feature {
	return &Feature{
		session:    session,
		afkService: afkService,
	}
}

// HandleCommand routes AFK slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "afk":
		f.handleSet(s, i)
	case "removeafk":
		f.handleRemove(s, i)
	}
}

// HandleMessage clears the author's AFK status and announces the AFK status
// of anyone they mention
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	ctx := context.Background()
	guildID := common.ParseSnowflake(m.GuildID)
	authorID := common.ParseSnowflake(m.Author.ID)

	existed, err := f.afkService.Clear(ctx, authorID, guildID)
	if err != nil {
		log.Errorf("Failed to clear AFK status: %v", err)
	} else if existed {
		f.stripNickPrefix(s, m.GuildID, m.Author.ID)
		content := fmt.Sprintf("👋 Welcome back %s, your AFK status has been cleared.", m.Author.Mention())
		if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
			log.Errorf("Failed to send AFK welcome back: %v", err)
		}
	}

	for _, mentioned := range m.Mentions {
		if mentioned.Bot || mentioned.ID == m.Author.ID {
			continue
		}
		status, err := f.afkService.Get(ctx, common.ParseSnowflake(mentioned.ID), guildID)
		if err != nil {
			log.Errorf("Failed to look up AFK status: %v", err)
			continue
		}
		if status == nil {
			continue
		}
		content := fmt.Sprintf("💤 %s is AFK: %s (%s)",
			common.GetDisplayName(s, m.GuildID, mentioned.ID),
			status.Reason,
			common.FormatDiscordTimestamp(status.SetAt, "R"))
		if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
			log.Errorf("Failed to send AFK notice: %v", err)
		}
	}
}

// handleSet handles the /afk command
func (f *Feature) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	reason := ""
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "reason" {
			reason = opt.StringValue()
		}
	}

	guildID := common.ParseSnowflake(i.GuildID)
	userID := common.ParseSnowflake(i.Member.User.ID)

	if err := f.afkService.Set(context.Background(), userID, guildID, reason); err != nil {
		log.Errorf("Failed to set AFK status: %v", err)
		common.RespondWithError(s, i, "Failed to set your AFK status. Please try again.")
		return
	}

	f.addNickPrefix(s, i.GuildID, i.Member)

	if err := common.RespondWithSuccess(s, i, "You are now AFK. I'll let people know when they mention you.", true); err != nil {
		log.Errorf("Failed to respond to afk command: %v", err)
	}
}

// handleRemove handles the /removeafk command
func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID := common.ParseSnowflake(i.GuildID)
	userID := common.ParseSnowflake(i.Member.User.ID)

	existed, err := f.afkService.Clear(context.Background(), userID, guildID)
	if err != nil {
		log.Errorf("Failed to clear AFK status: %v", err)
		common.RespondWithError(s, i, "Failed to clear your AFK status. Please try again.")
		return
	}
	if !existed {
		common.RespondWithError(s, i, "You are not AFK.")
		return
	}

	f.stripNickPrefix(s, i.GuildID, i.Member.User.ID)

	if err := common.RespondWithSuccess(s, i, "Your AFK status has been cleared.", true); err != nil {
		log.Errorf("Failed to respond to removeafk command: %v", err)
	}
}

// addNickPrefix tags the member's nickname. Best effort: the bot often lacks
// permission to rename admins and the guild owner.
func (f *Feature) addNickPrefix(s *discordgo.Session, guildID string, member *discordgo.Member) {
	nick := member.Nick
	if nick == "" {
		nick = member.User.Username
	}
	if strings.HasPrefix(nick, nickPrefix) {
		return
	}
	if err := s.GuildMemberNickname(guildID, member.User.ID, nickPrefix+nick); err != nil {
		log.Debugf("Failed to set AFK nickname: %v", err)
	}
}

func (f *Feature) stripNickPrefix(s *discordgo.Session, guildID, userID string) {
	member, err := s.State.Member(guildID, userID)
	if err != nil {
		member, err = s.GuildMember(guildID, userID)
		if err != nil {
			return
		}
	}
	if !strings.HasPrefix(member.Nick, nickPrefix) {
		return
	}
	if err := s.GuildMemberNickname(guildID, userID, strings.TrimPrefix(member.Nick, nickPrefix)); err != nil {
		log.Debugf("Failed to clear AFK nickname: %v", err)
	}
}
