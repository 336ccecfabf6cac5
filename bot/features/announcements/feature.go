package announcements

import (
	"strings"

	"npnbot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles the announce command in both its slash and text forms
type Feature struct {
	session *discordgo.Session
}

// NewFeature creates a new announcements feature
func NewFeature(session *discordgo.Session) *Feature {
	return &Feature{session: session}
}

// HandleCommand routes announcement slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.ApplicationCommandData().Name != "announce" {
		return
	}
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to make announcements.")
		return
	}

	var channel *discordgo.Channel
	var title, message string
	mentionEveryone := false
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "channel":
			channel = opt.ChannelValue(s)
		case "title":
			title = opt.StringValue()
		case "message":
			message = opt.StringValue()
		case "mention_everyone":
			mentionEveryone = opt.BoolValue()
		}
	}
	if channel == nil {
		common.RespondWithError(s, i, "Invalid channel.")
		return
	}

	if err := f.post(s, channel.ID, title, message, mentionEveryone); err != nil {
		log.Errorf("Failed to post announcement: %v", err)
		common.RespondWithError(s, i, "Failed to post the announcement. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "Announcement posted in "+channel.Mention()+".", true); err != nil {
		log.Errorf("Failed to respond to announce command: %v", err)
	}
}

// HandleTextCommand handles the prefixed announce command. The argument is
// "title | message"; with no separator the whole text becomes the message.
func (f *Feature) HandleTextCommand(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if !common.IsUserAdmin(s, m.GuildID, m.Author.ID) {
		r := &common.MessageResponder{Session: s, Message: m}
		if err := r.Respond("❌ You need administrator permissions to make announcements.", false); err != nil {
			log.Errorf("Failed to respond to announce text command: %v", err)
		}
		return
	}

	title := "Announcement"
	message := strings.TrimSpace(args)
	if before, after, found := strings.Cut(args, "|"); found {
		title = strings.TrimSpace(before)
		message = strings.TrimSpace(after)
	}
	if message == "" {
		r := &common.MessageResponder{Session: s, Message: m}
		if err := r.Respond("❌ Usage: announce <title> | <message>", false); err != nil {
			log.Errorf("Failed to respond to announce text command: %v", err)
		}
		return
	}

	if err := f.post(s, m.ChannelID, title, message, false); err != nil {
		log.Errorf("Failed to post announcement: %v", err)
	}
}

func (f *Feature) post(s *discordgo.Session, channelID, title, message string, mentionEveryone bool) error {
	embed := &discordgo.MessageEmbed{
		Title:       "📢 " + title,
		Color:       common.ColorPrimary,
		Description: message,
	}

	if !mentionEveryone {
		_, err := s.ChannelMessageSendEmbed(channelID, embed)
		return err
	}

	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: "@everyone",
		Embeds:  []*discordgo.MessageEmbed{embed},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeEveryone},
		},
	})
	return err
}
