package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"npnbot/database"
	"npnbot/models"

	"github.com/jackc/pgx/v5"
)

// PollRepository implements the PollRepository interface
type PollRepository struct {
	q queryable
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *database.DB) *PollRepository {
	return &PollRepository{q: db.Pool}
}

// newPollRepositoryWithTx creates a new poll repository with a transaction
func newPollRepositoryWithTx(tx queryable) *PollRepository {
	return &PollRepository{q: tx}
}

// Create inserts a new poll and populates its ID. Options are stored as a
// JSONB array so the option order survives round trips.
func (r *PollRepository) Create(ctx context.Context, poll *models.Poll) error {
	options, err := json.Marshal(poll.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal poll options: %w", err)
	}

	query := `
		INSERT INTO polls (guild_id, channel_id, message_id, question, options, creator_id, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, ended, created_at
	`

	err = r.q.QueryRow(ctx, query,
		poll.GuildID,
		poll.ChannelID,
		poll.MessageID,
		poll.Question,
		options,
		poll.CreatorID,
		poll.EndTime,
	).Scan(&poll.ID, &poll.Ended, &poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create poll for message %d: %w", poll.MessageID, err)
	}

	return nil
}

// GetByMessageID returns the poll announced by a message, nil if none
func (r *PollRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Poll, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, question, options, creator_id, end_time, ended, created_at
		FROM polls
		WHERE message_id = $1
	`

	poll, err := scanPoll(r.q.QueryRow(ctx, query, messageID))
	if err != nil {
		return nil, fmt.Errorf("failed to get poll for message %d: %w", messageID, err)
	}
	return poll, nil
}

// ListDue returns unended polls whose deadline has passed
func (r *PollRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Poll, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, question, options, creator_id, end_time, ended, created_at
		FROM polls
		WHERE NOT ended AND end_time IS NOT NULL AND end_time <= $1
		ORDER BY end_time
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due polls: %w", err)
	}
	defer rows.Close()

	var polls []*models.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}

	return polls, rows.Err()
}

// MarkEnded sets the ended flag. The flag never reverts.
func (r *PollRepository) MarkEnded(ctx context.Context, id int64) error {
	query := `
		UPDATE polls
		SET ended = TRUE
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark poll %d ended: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("poll %d not found", id)
	}

	return nil
}

func scanPoll(row pgx.Row) (*models.Poll, error) {
	var poll models.Poll
	var options []byte
	err := row.Scan(
		&poll.ID,
		&poll.GuildID,
		&poll.ChannelID,
		&poll.MessageID,
		&poll.Question,
		&options,
		&poll.CreatorID,
		&poll.EndTime,
		&poll.Ended,
		&poll.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(options, &poll.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal poll options: %w", err)
	}

	return &poll, nil
}
