package service

import (
	"context"
	"fmt"
	"time"

	"npnbot/models"
)

// defaultMaxTracked bounds the per-member timestamp window independently of
// guild configuration
const defaultMaxTracked = 64

// antispamService implements the AntispamService interface
type antispamService struct {
	uowFactory UnitOfWorkFactory
	tracker    *spamTracker
}

// NewAntispamService creates a new anti-spam service
func NewAntispamService(uowFactory UnitOfWorkFactory) AntispamService {
	return &antispamService{
		uowFactory: uowFactory,
		tracker:    newSpamTracker(defaultMaxTracked),
	}
}

// Configure stores a guild's anti-spam settings
func (s *antispamService) Configure(ctx context.Context, config *models.AntispamConfig) error {
	if !models.ValidSpamAction(config.Action) {
		return fmt.Errorf("invalid action %q: must be warn, mute, or kick", config.Action)
	}
	if config.MaxMessages < 1 {
		return fmt.Errorf("max messages must be at least 1")
	}
	if config.TimeWindowSeconds < 1 {
		return fmt.Errorf("time window must be at least 1 second")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.AntispamConfigRepository().Upsert(ctx, config); err != nil {
		return fmt.Errorf("failed to store antispam config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit antispam config: %w", err)
	}

	return nil
}

// CheckMessage records one message against the guild's sliding window and
// returns the configured action when the member crosses the threshold or
// repeats their previous message.
func (s *antispamService) CheckMessage(ctx context.Context, guildID, userID int64, content string, now time.Time) (*SpamVerdict, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	config, err := uow.AntispamConfigRepository().Get(ctx, guildID)
	uow.Rollback()
	if err != nil {
		return nil, fmt.Errorf("failed to load antispam config: %w", err)
	}
	if config == nil || !config.Enabled {
		return nil, nil
	}

	window := time.Duration(config.TimeWindowSeconds) * time.Second
	count, duplicate := s.tracker.Observe(guildID, userID, content, now, window)

	if count > config.MaxMessages {
		// Clear history so the member is not re-punished for the same burst
		s.tracker.Forget(guildID, userID)
		return &SpamVerdict{Action: config.Action, Reason: "Spam detected"}, nil
	}

	if duplicate {
		return &SpamVerdict{Action: config.Action, Reason: "Duplicate message spam"}, nil
	}

	return nil, nil
}

// Reset clears the in-memory tracking state
func (s *antispamService) Reset() {
	s.tracker.Reset()
}
