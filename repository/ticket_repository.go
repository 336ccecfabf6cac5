package repository

import (
	"context"
	"fmt"
	"time"

	"npnbot/database"
	"npnbot/models"

	"github.com/jackc/pgx/v5"
)

// TicketRepository implements the TicketRepository interface
type TicketRepository struct {
	q queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{q: db.Pool}
}

// newTicketRepositoryWithTx creates a new ticket repository with a transaction
func newTicketRepositoryWithTx(tx queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

// Create inserts a new ticket row. The partial unique index on
// (guild_id, user_id) WHERE status = 'open' rejects a second open ticket.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (channel_id, guild_id, user_id, ticket_number, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if ticket.Status == "" {
		ticket.Status = models.TicketStatusOpen
	}

	err := r.q.QueryRow(ctx, query,
		ticket.ChannelID,
		ticket.GuildID,
		ticket.UserID,
		ticket.TicketNumber,
		ticket.Status,
	).Scan(&ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket %d for user %d: %w", ticket.TicketNumber, ticket.UserID, err)
	}

	return nil
}

// GetOpenByUser returns the user's open ticket in a guild, nil if none
func (r *TicketRepository) GetOpenByUser(ctx context.Context, guildID, userID int64) (*models.Ticket, error) {
	query := `
		SELECT channel_id, guild_id, user_id, ticket_number, status, created_at, closed_at
		FROM tickets
		WHERE guild_id = $1 AND user_id = $2 AND status = 'open'
	`

	return r.scanOne(r.q.QueryRow(ctx, query, guildID, userID))
}

// GetOpenByChannel returns the open ticket backed by a channel, nil if none
func (r *TicketRepository) GetOpenByChannel(ctx context.Context, channelID int64) (*models.Ticket, error) {
	query := `
		SELECT channel_id, guild_id, user_id, ticket_number, status, created_at, closed_at
		FROM tickets
		WHERE channel_id = $1 AND status = 'open'
	`

	return r.scanOne(r.q.QueryRow(ctx, query, channelID))
}

// Close marks a ticket closed and records the closing time
func (r *TicketRepository) Close(ctx context.Context, channelID int64, closedAt time.Time) error {
	query := `
		UPDATE tickets
		SET status = 'closed', closed_at = $1
		WHERE channel_id = $2 AND status = 'open'
	`

	result, err := r.q.Exec(ctx, query, closedAt, channelID)
	if err != nil {
		return fmt.Errorf("failed to close ticket in channel %d: %w", channelID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("no open ticket in channel %d", channelID)
	}

	return nil
}

func (r *TicketRepository) scanOne(row pgx.Row) (*models.Ticket, error) {
	var ticket models.Ticket
	err := row.Scan(
		&ticket.ChannelID,
		&ticket.GuildID,
		&ticket.UserID,
		&ticket.TicketNumber,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.ClosedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}

	return &ticket, nil
}
