package repository

import (
	"context"
	"fmt"

	"npnbot/database"
	"npnbot/models"

	"github.com/jackc/pgx/v5"
)

// AFKRepository implements the AFKRepository interface
type AFKRepository struct {
	q queryable
}

// NewAFKRepository creates a new AFK repository
func NewAFKRepository(db *database.DB) *AFKRepository {
	return &AFKRepository{q: db.Pool}
}

// newAFKRepositoryWithTx creates a new AFK repository with a transaction
func newAFKRepositoryWithTx(tx queryable) *AFKRepository {
	return &AFKRepository{q: tx}
}

// Get returns the user's AFK status in a guild, nil if not AFK
func (r *AFKRepository) Get(ctx context.Context, userID, guildID int64) (*models.AFKStatus, error) {
	query := `
		SELECT user_id, guild_id, reason, set_at
		FROM afk_users
		WHERE user_id = $1 AND guild_id = $2
	`

	var status models.AFKStatus
	err := r.q.QueryRow(ctx, query, userID, guildID).Scan(
		&status.UserID,
		&status.GuildID,
		&status.Reason,
		&status.SetAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get AFK status for user %d: %w", userID, err)
	}

	return &status, nil
}

// Set inserts or replaces an AFK marker
func (r *AFKRepository) Set(ctx context.Context, status *models.AFKStatus) error {
	query := `
		INSERT INTO afk_users (user_id, guild_id, reason, set_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id) DO UPDATE SET
			reason = EXCLUDED.reason,
			set_at = EXCLUDED.set_at
	`

	_, err := r.q.Exec(ctx, query, status.UserID, status.GuildID, status.Reason, status.SetAt)
	if err != nil {
		return fmt.Errorf("failed to set AFK status for user %d: %w", status.UserID, err)
	}

	return nil
}

// Clear removes an AFK marker, reporting whether one existed
func (r *AFKRepository) Clear(ctx context.Context, userID, guildID int64) (bool, error) {
	query := `
		DELETE FROM afk_users
		WHERE user_id = $1 AND guild_id = $2
	`

	result, err := r.q.Exec(ctx, query, userID, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to clear AFK status for user %d: %w", userID, err)
	}

	return result.RowsAffected() > 0, nil
}
