package repository

import (
	"context"
	"fmt"

	"npnbot/database"

	"github.com/jackc/pgx/v5"
)

// TicketCounterRepository implements the TicketCounterRepository interface
type TicketCounterRepository struct {
	q queryable
}

// NewTicketCounterRepository creates a new ticket counter repository
func NewTicketCounterRepository(db *database.DB) *TicketCounterRepository {
	return &TicketCounterRepository{q: db.Pool}
}

// newTicketCounterRepositoryWithTx creates a new ticket counter repository with a transaction
func newTicketCounterRepositoryWithTx(tx queryable) *TicketCounterRepository {
	return &TicketCounterRepository{q: tx}
}

// Increment advances the guild's counter by one and returns the new value.
// The single upsert statement makes the read-modify-write atomic; the row
// lock it takes serializes concurrent callers.
func (r *TicketCounterRepository) Increment(ctx context.Context, guildID int64) (int64, error) {
	query := `
		INSERT INTO ticket_counters (guild_id, counter)
		VALUES ($1, 1)
		ON CONFLICT (guild_id) DO UPDATE SET counter = ticket_counters.counter + 1
		RETURNING counter
	`

	var counter int64
	err := r.q.QueryRow(ctx, query, guildID).Scan(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to increment ticket counter for guild %d: %w", guildID, err)
	}

	return counter, nil
}

// Current returns the guild's counter without advancing it
func (r *TicketCounterRepository) Current(ctx context.Context, guildID int64) (int64, error) {
	query := `
		SELECT counter
		FROM ticket_counters
		WHERE guild_id = $1
	`

	var counter int64
	err := r.q.QueryRow(ctx, query, guildID).Scan(&counter)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get ticket counter for guild %d: %w", guildID, err)
	}

	return counter, nil
}
