package service

import (
	"context"
	"fmt"

	"npnbot/models"
)

// donationService implements the DonationService interface
type donationService struct {
	uowFactory UnitOfWorkFactory
}

// NewDonationService creates a new donation announcement service
func NewDonationService(uowFactory UnitOfWorkFactory) DonationService {
	return &donationService{uowFactory: uowFactory}
}

// Record stores a posted donation announcement
func (s *donationService) Record(ctx context.Context, donation *models.Donation) error {
	if donation.Content == "" {
		return fmt.Errorf("donation content cannot be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.DonationRepository().Create(ctx, donation); err != nil {
		return fmt.Errorf("failed to store donation: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit donation: %w", err)
	}

	return nil
}

// Edit replaces the stored content for a donation message
func (s *donationService) Edit(ctx context.Context, messageID int64, content string) (*models.Donation, error) {
	if content == "" {
		return nil, fmt.Errorf("donation content cannot be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	donation, err := uow.DonationRepository().GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}
	if donation == nil {
		return nil, ErrNoDonation
	}

	if err := uow.DonationRepository().UpdateContent(ctx, messageID, content); err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit donation edit: %w", err)
	}

	donation.Content = content
	return donation, nil
}

// List returns a guild's donation announcements, newest first
func (s *donationService) List(ctx context.Context, guildID int64, limit int) ([]*models.Donation, error) {
	if limit <= 0 {
		limit = 25
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	donations, err := uow.DonationRepository().ListByGuild(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}
