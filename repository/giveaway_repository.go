package repository

import (
	"context"
	"fmt"
	"time"

	"npnbot/database"
	"npnbot/models"

	"github.com/jackc/pgx/v5"
)

// GiveawayRepository implements the GiveawayRepository interface
type GiveawayRepository struct {
	q queryable
}

// NewGiveawayRepository creates a new giveaway repository
func NewGiveawayRepository(db *database.DB) *GiveawayRepository {
	return &GiveawayRepository{q: db.Pool}
}

// newGiveawayRepositoryWithTx creates a new giveaway repository with a transaction
func newGiveawayRepositoryWithTx(tx queryable) *GiveawayRepository {
	return &GiveawayRepository{q: tx}
}

// Create inserts a new giveaway and populates its ID
func (r *GiveawayRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	query := `
		INSERT INTO giveaways (guild_id, channel_id, message_id, prize, winners_count, host_id, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, ended, created_at
	`

	err := r.q.QueryRow(ctx, query,
		giveaway.GuildID,
		giveaway.ChannelID,
		giveaway.MessageID,
		giveaway.Prize,
		giveaway.WinnersCount,
		giveaway.HostID,
		giveaway.EndTime,
	).Scan(&giveaway.ID, &giveaway.Ended, &giveaway.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create giveaway for message %d: %w", giveaway.MessageID, err)
	}

	return nil
}

// GetByMessageID returns the giveaway announced by a message, nil if none
func (r *GiveawayRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, prize, winners_count, host_id, end_time, ended, created_at
		FROM giveaways
		WHERE message_id = $1
	`

	var g models.Giveaway
	err := r.q.QueryRow(ctx, query, messageID).Scan(
		&g.ID,
		&g.GuildID,
		&g.ChannelID,
		&g.MessageID,
		&g.Prize,
		&g.WinnersCount,
		&g.HostID,
		&g.EndTime,
		&g.Ended,
		&g.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway for message %d: %w", messageID, err)
	}

	return &g, nil
}

// ListDue returns unended giveaways whose deadline has passed
func (r *GiveawayRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Giveaway, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, prize, winners_count, host_id, end_time, ended, created_at
		FROM giveaways
		WHERE NOT ended AND end_time IS NOT NULL AND end_time <= $1
		ORDER BY end_time
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due giveaways: %w", err)
	}
	defer rows.Close()

	var giveaways []*models.Giveaway
	for rows.Next() {
		var g models.Giveaway
		err := rows.Scan(
			&g.ID,
			&g.GuildID,
			&g.ChannelID,
			&g.MessageID,
			&g.Prize,
			&g.WinnersCount,
			&g.HostID,
			&g.EndTime,
			&g.Ended,
			&g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan giveaway: %w", err)
		}
		giveaways = append(giveaways, &g)
	}

	return giveaways, rows.Err()
}

// MarkEnded sets the ended flag. The flag never reverts.
func (r *GiveawayRepository) MarkEnded(ctx context.Context, id int64) error {
	query := `
		UPDATE giveaways
		SET ended = TRUE
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark giveaway %d ended: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("giveaway %d not found", id)
	}

	return nil
}
