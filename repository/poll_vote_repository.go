package repository

import (
	"context"
	"fmt"

	"npnbot/database"
	"npnbot/models"
)

// PollVoteRepository implements the PollVoteRepository interface
type PollVoteRepository struct {
	q queryable
}

// NewPollVoteRepository creates a new poll vote repository
func NewPollVoteRepository(db *database.DB) *PollVoteRepository {
	return &PollVoteRepository{q: db.Pool}
}

// newPollVoteRepositoryWithTx creates a new poll vote repository with a transaction
func newPollVoteRepositoryWithTx(tx queryable) *PollVoteRepository {
	return &PollVoteRepository{q: tx}
}

// Upsert records a vote, overwriting the voter's previous choice if any
func (r *PollVoteRepository) Upsert(ctx context.Context, vote *models.PollVote) error {
	query := `
		INSERT INTO poll_votes (poll_id, user_id, option_index)
		VALUES ($1, $2, $3)
		ON CONFLICT (poll_id, user_id) DO UPDATE SET option_index = EXCLUDED.option_index
	`

	_, err := r.q.Exec(ctx, query, vote.PollID, vote.UserID, vote.OptionIndex)
	if err != nil {
		return fmt.Errorf("failed to record vote on poll %d by user %d: %w", vote.PollID, vote.UserID, err)
	}

	return nil
}

// CountByOption returns per-option vote counts for a poll. Options with no
// votes are absent from the map.
func (r *PollVoteRepository) CountByOption(ctx context.Context, pollID int64) (map[int]int, error) {
	query := `
		SELECT option_index, COUNT(*)
		FROM poll_votes
		WHERE poll_id = $1
		GROUP BY option_index
	`

	rows, err := r.q.Query(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes for poll %d: %w", pollID, err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var optionIndex, count int
		if err := rows.Scan(&optionIndex, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[optionIndex] = count
	}

	return counts, rows.Err()
}
