package repository

import (
	"context"
	"fmt"

	"npnbot/database"
	"npnbot/models"

	"github.com/jackc/pgx/v5"
)

// StickyRepository implements the StickyRepository interface
type StickyRepository struct {
	q queryable
}

// NewStickyRepository creates a new sticky message repository
func NewStickyRepository(db *database.DB) *StickyRepository {
	return &StickyRepository{q: db.Pool}
}

// newStickyRepositoryWithTx creates a new sticky message repository with a transaction
func newStickyRepositoryWithTx(tx queryable) *StickyRepository {
	return &StickyRepository{q: tx}
}

// Get returns the channel's sticky message, nil if none
func (r *StickyRepository) Get(ctx context.Context, channelID int64) (*models.StickyMessage, error) {
	query := `
		SELECT channel_id, guild_id, content, last_message_id
		FROM sticky_messages
		WHERE channel_id = $1
	`

	var sticky models.StickyMessage
	err := r.q.QueryRow(ctx, query, channelID).Scan(
		&sticky.ChannelID,
		&sticky.GuildID,
		&sticky.Content,
		&sticky.LastMessageID,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sticky message for channel %d: %w", channelID, err)
	}

	return &sticky, nil
}

// Upsert inserts or replaces a channel's sticky message. Replacing resets
// last_message_id so the next repost starts fresh.
func (r *StickyRepository) Upsert(ctx context.Context, sticky *models.StickyMessage) error {
	query := `
		INSERT INTO sticky_messages (channel_id, guild_id, content, last_message_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (channel_id) DO UPDATE SET
			guild_id = EXCLUDED.guild_id,
			content = EXCLUDED.content,
			last_message_id = EXCLUDED.last_message_id
	`

	_, err := r.q.Exec(ctx, query, sticky.ChannelID, sticky.GuildID, sticky.Content, sticky.LastMessageID)
	if err != nil {
		return fmt.Errorf("failed to upsert sticky message for channel %d: %w", sticky.ChannelID, err)
	}

	return nil
}

// UpdateLastMessageID records the most recently posted copy
func (r *StickyRepository) UpdateLastMessageID(ctx context.Context, channelID, messageID int64) error {
	query := `
		UPDATE sticky_messages
		SET last_message_id = $1
		WHERE channel_id = $2
	`

	_, err := r.q.Exec(ctx, query, messageID, channelID)
	if err != nil {
		return fmt.Errorf("failed to update sticky message for channel %d: %w", channelID, err)
	}

	return nil
}

// Delete removes the channel's sticky message, reporting whether one existed
func (r *StickyRepository) Delete(ctx context.Context, channelID int64) (bool, error) {
	query := `
		DELETE FROM sticky_messages
		WHERE channel_id = $1
	`

	result, err := r.q.Exec(ctx, query, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to delete sticky message for channel %d: %w", channelID, err)
	}

	return result.RowsAffected() > 0, nil
}
