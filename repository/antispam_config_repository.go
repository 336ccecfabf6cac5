package repository

import (
	"context"
	"fmt"

	"npnbot/database"
	"npnbot/models"

	"github.com/jackc/pgx/v5"
)

// AntispamConfigRepository implements the AntispamConfigRepository interface
type AntispamConfigRepository struct {
	q queryable
}

// NewAntispamConfigRepository creates a new anti-spam config repository
func NewAntispamConfigRepository(db *database.DB) *AntispamConfigRepository {
	return &AntispamConfigRepository{q: db.Pool}
}

// newAntispamConfigRepositoryWithTx creates a new anti-spam config repository with a transaction
func newAntispamConfigRepositoryWithTx(tx queryable) *AntispamConfigRepository {
	return &AntispamConfigRepository{q: tx}
}

// Get retrieves a guild's anti-spam settings, nil if none stored
func (r *AntispamConfigRepository) Get(ctx context.Context, guildID int64) (*models.AntispamConfig, error) {
	query := `
		SELECT guild_id, enabled, max_messages, time_window_seconds, action
		FROM antispam_configs
		WHERE guild_id = $1
	`

	var config models.AntispamConfig
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&config.GuildID,
		&config.Enabled,
		&config.MaxMessages,
		&config.TimeWindowSeconds,
		&config.Action,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get antispam config for guild %d: %w", guildID, err)
	}

	return &config, nil
}

// Upsert inserts or replaces a guild's anti-spam settings
func (r *AntispamConfigRepository) Upsert(ctx context.Context, config *models.AntispamConfig) error {
	query := `
		INSERT INTO antispam_configs (guild_id, enabled, max_messages, time_window_seconds, action)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (guild_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			max_messages = EXCLUDED.max_messages,
			time_window_seconds = EXCLUDED.time_window_seconds,
			action = EXCLUDED.action
	`

	_, err := r.q.Exec(ctx, query,
		config.GuildID,
		config.Enabled,
		config.MaxMessages,
		config.TimeWindowSeconds,
		config.Action,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert antispam config for guild %d: %w", config.GuildID, err)
	}

	return nil
}
