package repository

import (
	"context"
	"fmt"

	"npnbot/database"
	"npnbot/models"

	"github.com/jackc/pgx/v5"
)

// GuildConfigRepository implements the GuildConfigRepository interface
type GuildConfigRepository struct {
	q queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// newGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func newGuildConfigRepositoryWithTx(tx queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

// Get retrieves a guild's configuration, nil if none stored
func (r *GuildConfigRepository) Get(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	query := `
		SELECT guild_id, prefix, welcome_channel_id, welcome_message,
		       leave_channel_id, leave_message, updated_at
		FROM guild_configs
		WHERE guild_id = $1
	`

	var config models.GuildConfig
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&config.GuildID,
		&config.Prefix,
		&config.WelcomeChannelID,
		&config.WelcomeMessage,
		&config.LeaveChannelID,
		&config.LeaveMessage,
		&config.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config for guild %d: %w", guildID, err)
	}

	return &config, nil
}

// Upsert inserts or fully replaces a guild's configuration
func (r *GuildConfigRepository) Upsert(ctx context.Context, config *models.GuildConfig) error {
	if config.Prefix == "" {
		config.Prefix = "!"
	}

	query := `
		INSERT INTO guild_configs (guild_id, prefix, welcome_channel_id, welcome_message,
		                           leave_channel_id, leave_message, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (guild_id) DO UPDATE SET
			prefix = EXCLUDED.prefix,
			welcome_channel_id = EXCLUDED.welcome_channel_id,
			welcome_message = EXCLUDED.welcome_message,
			leave_channel_id = EXCLUDED.leave_channel_id,
			leave_message = EXCLUDED.leave_message,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.q.Exec(ctx, query,
		config.GuildID,
		config.Prefix,
		config.WelcomeChannelID,
		config.WelcomeMessage,
		config.LeaveChannelID,
		config.LeaveMessage,
		config.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert config for guild %d: %w", config.GuildID, err)
	}

	return nil
}
