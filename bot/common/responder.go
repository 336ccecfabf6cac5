package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Responder abstracts over how a command reached the bot. Slash commands
// answer through the interaction; prefix text commands answer with a plain
// channel message. Handlers written against this interface serve both.
type Responder interface {
	// Respond sends the reply. Ephemeral is honored for interactions and
	// ignored for text commands, which have no ephemeral messages.
	Respond(content string, ephemeral bool) error

	// RespondEmbed sends an embed reply
	RespondEmbed(embed *discordgo.MessageEmbed, ephemeral bool) error

	// User returns the invoking user
	User() *discordgo.User

	// GuildID returns the guild the command came from
	GuildID() int64

	// ChannelID returns the channel the command came from
	ChannelID() int64
}

// InteractionResponder answers through a slash command interaction
type InteractionResponder struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
}

func (r *InteractionResponder) Respond(content string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.Session.InteractionRespond(r.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func (r *InteractionResponder) RespondEmbed(embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.Session.InteractionRespond(r.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func (r *InteractionResponder) User() *discordgo.User {
	if r.Interaction.Member != nil {
		return r.Interaction.Member.User
	}
	return r.Interaction.User
}

func (r *InteractionResponder) GuildID() int64 {
	return parseSnowflake(r.Interaction.GuildID)
}

func (r *InteractionResponder) ChannelID() int64 {
	return parseSnowflake(r.Interaction.ChannelID)
}

// MessageResponder answers a prefix text command with a channel message
type MessageResponder struct {
	Session *discordgo.Session
	Message *discordgo.MessageCreate
}

func (r *MessageResponder) Respond(content string, ephemeral bool) error {
	_, err := r.Session.ChannelMessageSend(r.Message.ChannelID, content)
	return err
}

func (r *MessageResponder) RespondEmbed(embed *discordgo.MessageEmbed, ephemeral bool) error {
	_, err := r.Session.ChannelMessageSendEmbed(r.Message.ChannelID, embed)
	return err
}

func (r *MessageResponder) User() *discordgo.User {
	return r.Message.Author
}

func (r *MessageResponder) GuildID() int64 {
	return parseSnowflake(r.Message.GuildID)
}

func (r *MessageResponder) ChannelID() int64 {
	return parseSnowflake(r.Message.ChannelID)
}

func parseSnowflake(id string) int64 {
	if id == "" {
		return 0
	}
	value, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse snowflake %q: %v", id, err)
		return 0
	}
	return value
}

// ParseSnowflake converts a Discord string ID to int64, zero on failure
func ParseSnowflake(id string) int64 {
	return parseSnowflake(id)
}

// Snowflake converts an int64 ID back to Discord's string form
func Snowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}
