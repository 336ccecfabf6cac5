package welcome

import (
	"context"

	"npnbot/bot/common"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	defaultWelcomeMessage = "Welcome to {server}, {user}! You are member #{membercount}."
	defaultLeaveMessage   = "{username} has left {server}."
)

// Feature handles welcome and leave configuration and the member events
type Feature struct {
	session            *discordgo.Session
	guildConfigService service.GuildConfigService
}

// NewFeature creates a new welcome feature
func NewFeature(session *discordgo.Session, guildConfigService service.GuildConfigService) *Feature {
	return &Feature{
		session:            session,
		guildConfigService: guildConfigService,
	}
}

// HandleCommand routes welcome slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "setwelcome":
		f.handleSetWelcome(s, i)
	case "setleave":
		f.handleSetLeave(s, i)
	case "testwelcome":
		f.handleTest(s, i)
	}
}

// HandleMemberAdd greets a new member in the configured channel
func (f *Feature) HandleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}

	config, err := f.guildConfigService.GetConfig(context.Background(), common.ParseSnowflake(m.GuildID))
	if err != nil {
		log.Errorf("Failed to load guild config: %v", err)
		return
	}
	if config == nil || config.WelcomeChannelID == nil {
		return
	}

	template := defaultWelcomeMessage
	if config.WelcomeMessage != nil {
		template = *config.WelcomeMessage
	}

	f.post(s, *config.WelcomeChannelID, welcomeEmbed(f.render(s, m.GuildID, m.User, template), m.User))
}

// HandleMemberRemove announces a departure in the configured channel
func (f *Feature) HandleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil || m.User.Bot {
		return
	}

	config, err := f.guildConfigService.GetConfig(context.Background(), common.ParseSnowflake(m.GuildID))
	if err != nil {
		log.Errorf("Failed to load guild config: %v", err)
		return
	}
	if config == nil || config.LeaveChannelID == nil {
		return
	}

	template := defaultLeaveMessage
	if config.LeaveMessage != nil {
		template = *config.LeaveMessage
	}

	f.post(s, *config.LeaveChannelID, leaveEmbed(f.render(s, m.GuildID, m.User, template)))
}

func (f *Feature) render(s *discordgo.Session, guildID string, user *discordgo.User, template string) string {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			guild = &discordgo.Guild{Name: "this server"}
		}
	}
	return common.ApplyPlaceholders(template, user, guild)
}

func (f *Feature) post(s *discordgo.Session, channelID int64, embed *discordgo.MessageEmbed) {
	common.SendChannelEmbed(s, common.Snowflake(channelID), embed)
}

// handleSetWelcome handles the /setwelcome command
func (f *Feature) handleSetWelcome(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleSet(s, i, "welcome", f.guildConfigService.SetWelcome)
}

// handleSetLeave handles the /setleave command
func (f *Feature) handleSetLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleSet(s, i, "leave", f.guildConfigService.SetLeave)
}

func (f *Feature) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate, kind string, set func(context.Context, int64, int64, *string) error) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to configure "+kind+" messages.")
		return
	}

	var channel *discordgo.Channel
	var message *string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "channel":
			channel = opt.ChannelValue(s)
		case "message":
			v := opt.StringValue()
			message = &v
		}
	}
	if channel == nil {
		common.RespondWithError(s, i, "Invalid channel.")
		return
	}

	guildID := common.ParseSnowflake(i.GuildID)
	channelID := common.ParseSnowflake(channel.ID)

	if err := set(context.Background(), guildID, channelID, message); err != nil {
		log.Errorf("Failed to set %s config: %v", kind, err)
		common.RespondWithError(s, i, "Failed to save the configuration. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "The "+kind+" message will be posted in "+channel.Mention()+".", true); err != nil {
		log.Errorf("Failed to respond to set%s command: %v", kind, err)
	}
}

// handleTest handles the /testwelcome command
func (f *Feature) handleTest(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to test welcome messages.")
		return
	}

	config, err := f.guildConfigService.GetConfig(context.Background(), common.ParseSnowflake(i.GuildID))
	if err != nil {
		log.Errorf("Failed to load guild config: %v", err)
		common.RespondWithError(s, i, "Failed to load the configuration. Please try again.")
		return
	}
	if config == nil || config.WelcomeChannelID == nil {
		common.RespondWithError(s, i, "No welcome channel configured. Set one with /setwelcome.")
		return
	}

	template := defaultWelcomeMessage
	if config.WelcomeMessage != nil {
		template = *config.WelcomeMessage
	}

	user := i.Member.User
	f.post(s, *config.WelcomeChannelID, welcomeEmbed(f.render(s, i.GuildID, user, template), user))

	if err := common.RespondWithSuccess(s, i, "Test welcome message sent.", true); err != nil {
		log.Errorf("Failed to respond to testwelcome command: %v", err)
	}
}

func welcomeEmbed(content string, user *discordgo.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "👋 Welcome!",
		Color:       common.ColorSuccess,
		Description: content,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: user.AvatarURL(""),
		},
	}
}

func leaveEmbed(content string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "👋 Goodbye",
		Color:       common.ColorWarning,
		Description: content,
	}
}
