package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"npnbot/events"
	"npnbot/models"

	log "github.com/sirupsen/logrus"
)

// ticketService implements the TicketService interface
type ticketService struct {
	uowFactory UnitOfWorkFactory
	channels   TicketChannelCreator

	// allocMu serializes ticket number allocation. One lock for every guild:
	// two in-flight OpenTicket calls must not observe the same counter value.
	allocMu sync.Mutex
}

// NewTicketService creates a new ticket service
func NewTicketService(uowFactory UnitOfWorkFactory, channels TicketChannelCreator) TicketService {
	return &ticketService{
		uowFactory: uowFactory,
		channels:   channels,
	}
}

// OpenTicket allocates a ticket number, creates the backing channel, and
// records the ticket
func (s *ticketService) OpenTicket(ctx context.Context, guildID, userID int64) (*models.Ticket, error) {
	// Reject up front if the user already has an open ticket
	existing, err := s.openTicketForUser(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ErrTicketExists{ChannelID: existing.ChannelID}
	}

	number, err := s.allocateNumber(ctx, guildID)
	if err != nil {
		return nil, err
	}

	// Channel creation happens outside any transaction. If it fails the
	// allocated number is consumed for good: ticket numbers may have gaps
	// but never collide.
	channelID, err := s.channels.CreateTicketChannel(ctx, guildID, userID, number)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket channel: %w", err)
	}

	ticket := &models.Ticket{
		ChannelID:    channelID,
		GuildID:      guildID,
		UserID:       userID,
		TicketNumber: number,
		Status:       models.TicketStatusOpen,
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TicketRepository().Create(ctx, ticket); err != nil {
		// The ticket was never recorded, so its channel must not survive
		s.discardChannel(ctx, channelID)

		// The partial unique index on open tickets closes the window where
		// two near-simultaneous requests both pass the check above. Surface
		// the survivor's channel instead of a generic failure.
		if winner, lookupErr := s.openTicketForUser(ctx, guildID, userID); lookupErr == nil && winner != nil {
			return nil, &ErrTicketExists{ChannelID: winner.ChannelID}
		}
		return nil, fmt.Errorf("failed to record ticket: %w", err)
	}

	uow.EventBus().Publish(events.TicketOpenedEvent{
		GuildID:      guildID,
		ChannelID:    channelID,
		UserID:       userID,
		TicketNumber: number,
	})

	if err := uow.Commit(); err != nil {
		s.discardChannel(ctx, channelID)
		return nil, fmt.Errorf("failed to commit ticket: %w", err)
	}

	return ticket, nil
}

// discardChannel deletes the channel of a ticket that failed to record.
// Best effort: the deletion failure is logged, never surfaced over the
// original error.
func (s *ticketService) discardChannel(ctx context.Context, channelID int64) {
	if err := s.channels.DeleteTicketChannel(ctx, channelID); err != nil {
		log.Errorf("Failed to delete orphaned ticket channel %d: %v", channelID, err)
	}
}

// allocateNumber performs the serialized counter increment. The mutex is held
// across the whole read-modify-write so two callers can never both observe
// the same counter value, even though each storage call is a suspension point.
func (s *ticketService) allocateNumber(ctx context.Context, guildID int64) (int64, error) {
	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	number, err := uow.TicketCounterRepository().Increment(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate ticket number: %w", err)
	}

	// The counter write commits before the number is used anywhere, so a
	// crash after this point can waste the number but never reissue it.
	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit counter: %w", err)
	}

	return number, nil
}

// CloseTicket closes the ticket backing a channel
func (s *ticketService) CloseTicket(ctx context.Context, channelID, closedBy int64) (*models.Ticket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().GetOpenByChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up ticket: %w", err)
	}
	if ticket == nil {
		return nil, ErrNotTicketChannel
	}

	closedAt := time.Now().UTC()
	if err := uow.TicketRepository().Close(ctx, channelID, closedAt); err != nil {
		return nil, fmt.Errorf("failed to close ticket: %w", err)
	}

	ticket.Status = models.TicketStatusClosed
	ticket.ClosedAt = &closedAt

	uow.EventBus().Publish(events.TicketClosedEvent{
		GuildID:   ticket.GuildID,
		ChannelID: channelID,
		ClosedBy:  closedBy,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ticket close: %w", err)
	}

	return ticket, nil
}

// GetOpenTicket returns the open ticket backing a channel, nil if none
func (s *ticketService) GetOpenTicket(ctx context.Context, channelID int64) (*models.Ticket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().GetOpenByChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up ticket: %w", err)
	}
	return ticket, nil
}

// openTicketForUser looks up a user's open ticket in its own read transaction
func (s *ticketService) openTicketForUser(ctx context.Context, guildID, userID int64) (*models.Ticket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().GetOpenByUser(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up open ticket: %w", err)
	}
	return ticket, nil
}
