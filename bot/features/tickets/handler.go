package tickets

import (
	"context"
	"fmt"

	"npnbot/bot/common"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleOpen handles the /ticket command
func (f *Feature) handleOpen(s *discordgo.Session, i *discordgo.InteractionCreate) {
	reason := ""
	if options := i.ApplicationCommandData().Options; len(options) > 0 {
		reason = options[0].StringValue()
	}

	responder := &common.InteractionResponder{Session: s, Interaction: i}
	f.Open(responder, reason)
}

// HandleTextCommand handles the !ticket prefix command
func (f *Feature) HandleTextCommand(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	responder := &common.MessageResponder{Session: s, Message: m}
	f.Open(responder, args)
}

// Open creates a ticket for the invoking user, answering through whichever
// transport the request came in on
func (f *Feature) Open(r common.Responder, reason string) {
	ctx := context.Background()

	guildID := r.GuildID()
	userID := common.ParseSnowflake(r.User().ID)
	if guildID == 0 || userID == 0 {
		if err := r.Respond("❌ Tickets can only be opened inside a server.", true); err != nil {
			log.Errorf("Failed to respond to ticket command: %v", err)
		}
		return
	}

	ticket, err := f.ticketService.OpenTicket(ctx, guildID, userID)
	if err != nil {
		if existing := service.AsTicketExists(err); existing != nil {
			msg := fmt.Sprintf("❌ You already have an open ticket: <#%d>", existing.ChannelID)
			if err := r.Respond(msg, true); err != nil {
				log.Errorf("Failed to respond to ticket command: %v", err)
			}
			return
		}
		log.Errorf("Failed to open ticket for user %d: %v", userID, err)
		if err := r.Respond("❌ Failed to open a ticket. Please try again.", true); err != nil {
			log.Errorf("Failed to respond to ticket command: %v", err)
		}
		return
	}

	if reason != "" {
		f.postReason(ticket.ChannelID, r.User(), reason)
	}

	msg := fmt.Sprintf("🎫 Ticket #%d opened: <#%d>", ticket.TicketNumber, ticket.ChannelID)
	if err := r.Respond(msg, true); err != nil {
		log.Errorf("Failed to respond to ticket command: %v", err)
	}
}

// handleClose handles the /closeticket command
func (f *Feature) handleClose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	channelID := common.ParseSnowflake(i.ChannelID)
	userID := common.ParseSnowflake(i.Member.User.ID)

	ticket, err := f.ticketService.GetOpenTicket(ctx, channelID)
	if err != nil {
		log.Errorf("Failed to look up ticket in channel %d: %v", channelID, err)
		common.RespondWithError(s, i, "Failed to close the ticket. Please try again.")
		return
	}
	if ticket == nil {
		common.RespondWithError(s, i, "This channel is not an open ticket.")
		return
	}

	// Only the ticket owner or an admin may close it
	if ticket.UserID != userID && !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "Only the ticket owner or an administrator can close this ticket.")
		return
	}

	if _, err := f.ticketService.CloseTicket(ctx, channelID, userID); err != nil {
		log.Errorf("Failed to close ticket in channel %d: %v", channelID, err)
		common.RespondWithError(s, i, "Failed to close the ticket. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "Ticket closed. This channel will be deleted shortly.", false); err != nil {
		log.Errorf("Failed to respond to closeticket command: %v", err)
	}

	// Channel deletion is best effort; the ticket is closed either way
	if _, err := s.ChannelDelete(i.ChannelID); err != nil {
		log.Errorf("Failed to delete ticket channel %s: %v", i.ChannelID, err)
	}
}

// postReason drops the opener's stated reason into the fresh ticket channel
func (f *Feature) postReason(channelID int64, user *discordgo.User, reason string) {
	embed := &discordgo.MessageEmbed{
		Title:       "New Ticket",
		Description: reason,
		Color:       common.ColorPrimary,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Opened by " + user.Username},
	}
	common.SendChannelEmbed(f.session, common.Snowflake(channelID), embed)
}
