package service

import (
	"context"
	"fmt"

	"npnbot/models"
)

// stickyService implements the StickyService interface
type stickyService struct {
	uowFactory UnitOfWorkFactory
}

// NewStickyService creates a new sticky message service
func NewStickyService(uowFactory UnitOfWorkFactory) StickyService {
	return &stickyService{uowFactory: uowFactory}
}

// Set stores the channel's sticky message content
func (s *stickyService) Set(ctx context.Context, guildID, channelID int64, content string) error {
	if content == "" {
		return fmt.Errorf("sticky message content cannot be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sticky := &models.StickyMessage{
		ChannelID: channelID,
		GuildID:   guildID,
		Content:   content,
	}
	if err := uow.StickyRepository().Upsert(ctx, sticky); err != nil {
		return fmt.Errorf("failed to store sticky message: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit sticky message: %w", err)
	}

	return nil
}

// Remove deletes the channel's sticky message, returning the old row so the
// caller can delete the posted copy
func (s *stickyService) Remove(ctx context.Context, channelID int64) (*models.StickyMessage, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sticky, err := uow.StickyRepository().Get(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sticky message: %w", err)
	}
	if sticky == nil {
		return nil, ErrNoSticky
	}

	if _, err := uow.StickyRepository().Delete(ctx, channelID); err != nil {
		return nil, fmt.Errorf("failed to delete sticky message: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sticky removal: %w", err)
	}

	return sticky, nil
}

// Current returns the channel's sticky message, nil if none
func (s *stickyService) Current(ctx context.Context, channelID int64) (*models.StickyMessage, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sticky, err := uow.StickyRepository().Get(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sticky message: %w", err)
	}
	return sticky, nil
}

// RecordRepost stores the ID of the freshly posted copy
func (s *stickyService) RecordRepost(ctx context.Context, channelID, messageID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.StickyRepository().UpdateLastMessageID(ctx, channelID, messageID); err != nil {
		return fmt.Errorf("failed to record sticky repost: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit sticky repost: %w", err)
	}

	return nil
}
