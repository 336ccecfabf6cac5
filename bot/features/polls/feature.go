package polls

import (
	"context"

	"npnbot/bot/common"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// NumberEmojis maps option index to the ballot emoji users react with
var NumberEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// Feature handles poll commands and ballot reactions
type Feature struct {
	session     *discordgo.Session
	pollService service.PollService
}

// NewFeature creates a new polls feature
func NewFeature(session *discordgo.Session, pollService service.PollService) *Feature {
	return &Feature{
		session:     session,
		pollService: pollService,
	}
}

// HandleCommand routes poll slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "poll":
		f.handleCreate(s, i)
	case "endpoll":
		f.handleEnd(s, i)
	}
}

// HandleReactionAdd counts a ballot reaction as a vote
func (f *Feature) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	optionIndex := optionForEmoji(r.Emoji.Name)
	if optionIndex < 0 {
		return
	}

	messageID := common.ParseSnowflake(r.MessageID)
	userID := common.ParseSnowflake(r.UserID)
	if messageID == 0 || userID == 0 {
		return
	}

	poll, err := f.pollService.CastVote(context.Background(), messageID, userID, optionIndex)
	if err != nil {
		log.Errorf("Failed to cast vote on message %d: %v", messageID, err)
		return
	}
	if poll == nil {
		// Not an active poll, or the emoji maps past its option list
		return
	}

	// One visible reaction per voter. Re-votes already overwrite in the
	// database; this just keeps the message tidy.
	for index, emoji := range NumberEmojis {
		if index == optionIndex || index >= len(poll.Options) {
			continue
		}
		if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, emoji, r.UserID); err != nil {
			log.Debugf("Failed to remove stale ballot reaction: %v", err)
		}
	}
}

// optionForEmoji returns the option index for a ballot emoji, -1 if not one
func optionForEmoji(emoji string) int {
	for index, candidate := range NumberEmojis {
		if candidate == emoji {
			return index
		}
	}
	return -1
}
