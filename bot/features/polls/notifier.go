package polls

import (
	"context"

	"npnbot/bot/common"
	"npnbot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ResultsAnnouncer posts poll results back to the poll channel. It implements
// service.PollNotifier.
type ResultsAnnouncer struct {
	session *discordgo.Session
}

// NewResultsAnnouncer creates a channel-posting poll notifier
func NewResultsAnnouncer(session *discordgo.Session) *ResultsAnnouncer {
	return &ResultsAnnouncer{session: session}
}

// PollEnded announces the tally and updates the original poll message
func (a *ResultsAnnouncer) PollEnded(ctx context.Context, result *models.PollResult) error {
	channel := common.Snowflake(result.Poll.ChannelID)
	embed := resultsEmbed(result)

	if _, err := a.session.ChannelMessageSendEmbed(channel, embed, discordgo.WithContext(ctx)); err != nil {
		return err
	}

	message := common.Snowflake(result.Poll.MessageID)
	if _, err := a.session.ChannelMessageEditEmbed(channel, message, embed, discordgo.WithContext(ctx)); err != nil {
		log.Errorf("Failed to update poll message %d: %v", result.Poll.MessageID, err)
	}

	return nil
}
