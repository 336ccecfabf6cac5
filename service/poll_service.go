package service

import (
	"context"
	"fmt"
	"time"

	"npnbot/events"
	"npnbot/models"

	log "github.com/sirupsen/logrus"
)

// pollService implements the PollService interface
type pollService struct {
	uowFactory      UnitOfWorkFactory
	notifier        PollNotifier
	finalizeTimeout time.Duration
}

// NewPollService creates a new poll service
func NewPollService(uowFactory UnitOfWorkFactory, notifier PollNotifier, finalizeTimeout time.Duration) PollService {
	return &pollService{
		uowFactory:      uowFactory,
		notifier:        notifier,
		finalizeTimeout: finalizeTimeout,
	}
}

// Create records a newly announced poll
func (s *pollService) Create(ctx context.Context, poll *models.Poll) error {
	if len(poll.Options) < 2 {
		return fmt.Errorf("poll needs at least 2 options")
	}
	if len(poll.Options) > models.MaxPollOptions {
		return fmt.Errorf("poll supports at most %d options", models.MaxPollOptions)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PollRepository().Create(ctx, poll); err != nil {
		return fmt.Errorf("failed to record poll: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit poll: %w", err)
	}

	return nil
}

// CastVote records a ballot for the poll announced by messageID. Re-voting
// overwrites the voter's stored choice; removing a reaction retracts nothing.
func (s *pollService) CastVote(ctx context.Context, messageID, userID int64, optionIndex int) (*models.Poll, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	poll, err := uow.PollRepository().GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up poll: %w", err)
	}
	if poll == nil || poll.Ended {
		return nil, nil
	}
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return nil, nil
	}

	vote := &models.PollVote{
		PollID:      poll.ID,
		UserID:      userID,
		OptionIndex: optionIndex,
	}
	if err := uow.PollVoteRepository().Upsert(ctx, vote); err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	return poll, nil
}

// EndEarly finalizes an active poll ahead of its deadline
func (s *pollService) EndEarly(ctx context.Context, messageID int64) (*models.PollResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	poll, err := uow.PollRepository().GetByMessageID(ctx, messageID)
	uow.Rollback()
	if err != nil {
		return nil, fmt.Errorf("failed to look up poll: %w", err)
	}
	if poll == nil || poll.Ended {
		return nil, ErrNoActivePoll
	}

	return s.finalize(ctx, poll)
}

// FinalizeDue finalizes every poll past its deadline, isolating failures
// per row
func (s *pollService) FinalizeDue(ctx context.Context, now time.Time) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	due, err := uow.PollRepository().ListDue(ctx, now)
	uow.Rollback()
	if err != nil {
		return fmt.Errorf("failed to list due polls: %w", err)
	}

	for _, poll := range due {
		rowCtx, cancel := context.WithTimeout(ctx, s.finalizeTimeout)
		if _, err := s.finalize(rowCtx, poll); err != nil {
			log.WithFields(log.Fields{
				"pollID":  poll.ID,
				"guildID": poll.GuildID,
			}).Errorf("Failed to finalize poll: %v", err)
		}
		cancel()
	}

	return nil
}

// finalize tallies the ballots from the store and ends the poll. The tally
// is recomputed from persisted votes, never from memory, and the ended flag
// is written before the result notification goes out.
func (s *pollService) finalize(ctx context.Context, poll *models.Poll) (*models.PollResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	byOption, err := uow.PollVoteRepository().CountByOption(ctx, poll.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}

	counts := make([]int, len(poll.Options))
	total := 0
	for index, count := range byOption {
		if index >= 0 && index < len(counts) {
			counts[index] = count
			total += count
		}
	}

	result := &models.PollResult{
		Poll:       poll,
		Counts:     counts,
		TotalVotes: total,
	}

	if err := uow.PollRepository().MarkEnded(ctx, poll.ID); err != nil {
		return nil, fmt.Errorf("failed to mark poll ended: %w", err)
	}

	uow.EventBus().Publish(events.PollEndedEvent{
		PollID:     poll.ID,
		GuildID:    poll.GuildID,
		ChannelID:  poll.ChannelID,
		TotalVotes: total,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit poll end: %w", err)
	}
	poll.Ended = true

	// Best effort: the poll stays ended whether or not the results post.
	if err := s.notifier.PollEnded(ctx, result); err != nil {
		log.WithField("pollID", poll.ID).Warnf("Failed to announce poll result: %v", err)
	}

	return result, nil
}
