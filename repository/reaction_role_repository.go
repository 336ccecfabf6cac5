package repository

import (
	"context"
	"fmt"

	"npnbot/database"
	"npnbot/models"

	"github.com/jackc/pgx/v5"
)

// ReactionRoleRepository implements the ReactionRoleRepository interface
type ReactionRoleRepository struct {
	q queryable
}

// NewReactionRoleRepository creates a new reaction role repository
func NewReactionRoleRepository(db *database.DB) *ReactionRoleRepository {
	return &ReactionRoleRepository{q: db.Pool}
}

// newReactionRoleRepositoryWithTx creates a new reaction role repository with a transaction
func newReactionRoleRepositoryWithTx(tx queryable) *ReactionRoleRepository {
	return &ReactionRoleRepository{q: tx}
}

// Get returns the binding for (message, emoji), nil if none
func (r *ReactionRoleRepository) Get(ctx context.Context, messageID int64, emoji string) (*models.ReactionRole, error) {
	query := `
		SELECT message_id, emoji, role_id, guild_id
		FROM reaction_roles
		WHERE message_id = $1 AND emoji = $2
	`

	var binding models.ReactionRole
	err := r.q.QueryRow(ctx, query, messageID, emoji).Scan(
		&binding.MessageID,
		&binding.Emoji,
		&binding.RoleID,
		&binding.GuildID,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction role for message %d: %w", messageID, err)
	}

	return &binding, nil
}

// Upsert inserts or replaces a binding
func (r *ReactionRoleRepository) Upsert(ctx context.Context, binding *models.ReactionRole) error {
	query := `
		INSERT INTO reaction_roles (message_id, emoji, role_id, guild_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (message_id, emoji) DO UPDATE SET
			role_id = EXCLUDED.role_id,
			guild_id = EXCLUDED.guild_id
	`

	_, err := r.q.Exec(ctx, query, binding.MessageID, binding.Emoji, binding.RoleID, binding.GuildID)
	if err != nil {
		return fmt.Errorf("failed to upsert reaction role for message %d: %w", binding.MessageID, err)
	}

	return nil
}

// Delete removes a binding, reporting whether one existed
func (r *ReactionRoleRepository) Delete(ctx context.Context, messageID int64, emoji string) (bool, error) {
	query := `
		DELETE FROM reaction_roles
		WHERE message_id = $1 AND emoji = $2
	`

	result, err := r.q.Exec(ctx, query, messageID, emoji)
	if err != nil {
		return false, fmt.Errorf("failed to delete reaction role for message %d: %w", messageID, err)
	}

	return result.RowsAffected() > 0, nil
}
