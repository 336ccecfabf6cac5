package service

import (
	"context"
	"fmt"
	"time"

	"npnbot/models"
)

// afkService implements the AFKService interface
type afkService struct {
	uowFactory UnitOfWorkFactory
}

// NewAFKService creates a new AFK service
func NewAFKService(uowFactory UnitOfWorkFactory) AFKService {
	return &afkService{uowFactory: uowFactory}
}

// Set marks a user AFK in a guild
func (s *afkService) Set(ctx context.Context, userID, guildID int64, reason string) error {
	if reason == "" {
		reason = "AFK"
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	status := &models.AFKStatus{
		UserID:  userID,
		GuildID: guildID,
		Reason:  reason,
		SetAt:   time.Now().UTC(),
	}
	if err := uow.AFKRepository().Set(ctx, status); err != nil {
		return fmt.Errorf("failed to set AFK status: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit AFK status: %w", err)
	}

	return nil
}

// Clear removes a user's AFK marker, reporting whether one existed
func (s *afkService) Clear(ctx context.Context, userID, guildID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existed, err := uow.AFKRepository().Clear(ctx, userID, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to clear AFK status: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit AFK removal: %w", err)
	}

	return existed, nil
}

// Get returns a user's AFK status, nil if not AFK
func (s *afkService) Get(ctx context.Context, userID, guildID int64) (*models.AFKStatus, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	status, err := uow.AFKRepository().Get(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get AFK status: %w", err)
	}
	return status, nil
}
