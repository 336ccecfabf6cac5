package giveaways

import (
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
)

// EntryEmoji is the reaction that enters a giveaway
const EntryEmoji = "🎉"

// Feature handles giveaway commands
type Feature struct {
	session         *discordgo.Session
	giveawayService service.GiveawayService
}

// NewFeature creates a new giveaways feature instance
func NewFeature(session *discordgo.Session, giveawayService service.GiveawayService) *Feature {
	return &Feature{
		session:         session,
		giveawayService: giveawayService,
	}
}

// HandleCommand routes giveaway commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "gstart":
		f.handleStart(s, i)
	case "gend":
		f.handleEnd(s, i)
	case "greroll":
		f.handleReroll(s, i)
	}
}
