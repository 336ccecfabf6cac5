package giveaways

import (
	"context"
	"errors"
	"net/http"

	"npnbot/bot/common"
	"npnbot/models"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const reactionPageSize = 100

// ReactionEntrants reads giveaway entrants from the entry reactions on the
// announcement message. It implements service.EntrantSource.
type ReactionEntrants struct {
	session *discordgo.Session
}

// NewReactionEntrants creates a reaction-backed entrant source
func NewReactionEntrants(session *discordgo.Session) *ReactionEntrants {
	return &ReactionEntrants{session: session}
}

// Entrants returns the user IDs reacting with the entry emoji, bots excluded.
// The list is read fresh from the API on every call since reactions change
// right up to the deadline.
func (e *ReactionEntrants) Entrants(ctx context.Context, guildID, channelID, messageID int64) ([]int64, error) {
	channel := common.Snowflake(channelID)
	message := common.Snowflake(messageID)

	var entrantIDs []int64
	afterID := ""
	for {
		users, err := e.session.MessageReactions(channel, message, EntryEmoji, reactionPageSize, "", afterID, discordgo.WithContext(ctx))
		if err != nil {
			if isGone(err) {
				return nil, service.ErrAnnouncementGone
			}
			return nil, err
		}

		for _, user := range users {
			if user.Bot {
				continue
			}
			if id := common.ParseSnowflake(user.ID); id != 0 {
				entrantIDs = append(entrantIDs, id)
			}
		}

		if len(users) < reactionPageSize {
			return entrantIDs, nil
		}
		afterID = users[len(users)-1].ID
	}
}

// isGone reports whether a REST error means the announcement no longer exists
func isGone(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		code := restErr.Response.StatusCode
		return code == http.StatusNotFound || code == http.StatusForbidden
	}
	return false
}

// Announcer posts giveaway results back to the giveaway channel. It
// implements service.GiveawayNotifier.
type Announcer struct {
	session *discordgo.Session
}

// NewAnnouncer creates a channel-posting giveaway notifier
func NewAnnouncer(session *discordgo.Session) *Announcer {
	return &Announcer{session: session}
}

// GiveawayEnded announces the winners and updates the original announcement
func (a *Announcer) GiveawayEnded(ctx context.Context, result *models.GiveawayResult) error {
	channel := common.Snowflake(result.Giveaway.ChannelID)

	var content string
	if result.HasWinners() {
		content = "🎉 Congratulations " + common.FormatMentions(result.WinnerIDs) + "! You won **" + result.Giveaway.Prize + "**!"
	} else {
		content = "🎉 The giveaway for **" + result.Giveaway.Prize + "** ended with no entrants."
	}

	if _, err := a.session.ChannelMessageSend(channel, content, discordgo.WithContext(ctx)); err != nil {
		return err
	}

	// Rewriting the announcement is nice to have; the winner message above
	// already carries the result.
	message := common.Snowflake(result.Giveaway.MessageID)
	if _, err := a.session.ChannelMessageEditEmbed(channel, message, resultEmbed(result), discordgo.WithContext(ctx)); err != nil {
		log.Errorf("Failed to update giveaway announcement %d: %v", result.Giveaway.MessageID, err)
	}

	return nil
}
