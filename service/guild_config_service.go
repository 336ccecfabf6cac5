package service

import (
	"context"
	"fmt"
	"time"

	"npnbot/models"
)

// guildConfigService implements the GuildConfigService interface
type guildConfigService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildConfigService creates a new guild configuration service
func NewGuildConfigService(uowFactory UnitOfWorkFactory) GuildConfigService {
	return &guildConfigService{uowFactory: uowFactory}
}

// GetConfig returns the guild's configuration, nil if none stored
func (s *guildConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := uow.GuildConfigRepository().Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	return config, nil
}

// SetWelcome configures the welcome channel and optional custom message
func (s *guildConfigService) SetWelcome(ctx context.Context, guildID, channelID int64, message *string) error {
	return s.update(ctx, guildID, func(config *models.GuildConfig) {
		config.WelcomeChannelID = &channelID
		config.WelcomeMessage = message
	})
}

// SetLeave configures the leave channel and optional custom message
func (s *guildConfigService) SetLeave(ctx context.Context, guildID, channelID int64, message *string) error {
	return s.update(ctx, guildID, func(config *models.GuildConfig) {
		config.LeaveChannelID = &channelID
		config.LeaveMessage = message
	})
}

// update loads the guild's config, applies fn, and writes it back in one
// transaction. A guild without a stored config starts from defaults.
func (s *guildConfigService) update(ctx context.Context, guildID int64, fn func(*models.GuildConfig)) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := uow.GuildConfigRepository().Get(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild config: %w", err)
	}
	if config == nil {
		config = &models.GuildConfig{GuildID: guildID}
	}

	fn(config)
	config.UpdatedAt = time.Now().UTC()

	if err := uow.GuildConfigRepository().Upsert(ctx, config); err != nil {
		return fmt.Errorf("failed to store guild config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit guild config: %w", err)
	}

	return nil
}
