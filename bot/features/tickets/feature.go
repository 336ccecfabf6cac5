package tickets

import (
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles support ticket commands
type Feature struct {
	session       *discordgo.Session
	ticketService service.TicketService
}

// NewFeature creates a new tickets feature instance
func NewFeature(session *discordgo.Session, ticketService service.TicketService) *Feature {
	return &Feature{
		session:       session,
		ticketService: ticketService,
	}
}

// HandleCommand routes ticket commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "ticket":
		f.handleOpen(s, i)
	case "closeticket":
		f.handleClose(s, i)
	}
}
