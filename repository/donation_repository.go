package repository

import (
	"context"
	"fmt"

	"npnbot/database"
	"npnbot/models"

	"github.com/jackc/pgx/v5"
)

// DonationRepository implements the DonationRepository interface
type DonationRepository struct {
	q queryable
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *database.DB) *DonationRepository {
	return &DonationRepository{q: db.Pool}
}

// newDonationRepositoryWithTx creates a new donation repository with a transaction
func newDonationRepositoryWithTx(tx queryable) *DonationRepository {
	return &DonationRepository{q: tx}
}

// Create inserts a new donation announcement and populates its ID
func (r *DonationRepository) Create(ctx context.Context, donation *models.Donation) error {
	query := `
		INSERT INTO donations (guild_id, channel_id, message_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		donation.GuildID,
		donation.ChannelID,
		donation.MessageID,
		donation.Content,
	).Scan(&donation.ID, &donation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create donation for message %d: %w", donation.MessageID, err)
	}

	return nil
}

// GetByMessageID returns the donation behind a message, nil if none
func (r *DonationRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Donation, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, content, created_at
		FROM donations
		WHERE message_id = $1
	`

	var donation models.Donation
	err := r.q.QueryRow(ctx, query, messageID).Scan(
		&donation.ID,
		&donation.GuildID,
		&donation.ChannelID,
		&donation.MessageID,
		&donation.Content,
		&donation.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get donation for message %d: %w", messageID, err)
	}

	return &donation, nil
}

// UpdateContent replaces the stored content for a donation message
func (r *DonationRepository) UpdateContent(ctx context.Context, messageID int64, content string) error {
	query := `
		UPDATE donations
		SET content = $1
		WHERE message_id = $2
	`

	result, err := r.q.Exec(ctx, query, content, messageID)
	if err != nil {
		return fmt.Errorf("failed to update donation for message %d: %w", messageID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("no donation for message %d", messageID)
	}

	return nil
}

// ListByGuild returns a guild's donations, newest first
func (r *DonationRepository) ListByGuild(ctx context.Context, guildID int64, limit int) ([]*models.Donation, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, content, created_at
		FROM donations
		WHERE guild_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var donations []*models.Donation
	for rows.Next() {
		var donation models.Donation
		err := rows.Scan(
			&donation.ID,
			&donation.GuildID,
			&donation.ChannelID,
			&donation.MessageID,
			&donation.Content,
			&donation.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, &donation)
	}

	return donations, rows.Err()
}
