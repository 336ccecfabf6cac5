package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"npnbot/events"
	"npnbot/models"

	log "github.com/sirupsen/logrus"
)

// giveawayService implements the GiveawayService interface
type giveawayService struct {
	uowFactory      UnitOfWorkFactory
	entrants        EntrantSource
	notifier        GiveawayNotifier
	finalizeTimeout time.Duration
}

// NewGiveawayService creates a new giveaway service
func NewGiveawayService(uowFactory UnitOfWorkFactory, entrants EntrantSource, notifier GiveawayNotifier, finalizeTimeout time.Duration) GiveawayService {
	return &giveawayService{
		uowFactory:      uowFactory,
		entrants:        entrants,
		notifier:        notifier,
		finalizeTimeout: finalizeTimeout,
	}
}

// Start records a newly announced giveaway
func (s *giveawayService) Start(ctx context.Context, giveaway *models.Giveaway) error {
	if giveaway.WinnersCount < 1 {
		return fmt.Errorf("winners count must be at least 1")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GiveawayRepository().Create(ctx, giveaway); err != nil {
		return fmt.Errorf("failed to record giveaway: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit giveaway: %w", err)
	}

	return nil
}

// EndEarly finalizes an active giveaway ahead of its deadline
func (s *giveawayService) EndEarly(ctx context.Context, messageID int64) (*models.GiveawayResult, error) {
	giveaway, err := s.byMessageID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if giveaway == nil || giveaway.Ended {
		return nil, ErrNoActiveGiveaway
	}

	return s.finalize(ctx, giveaway)
}

// Reroll draws fresh winners for an already ended giveaway. Nothing is
// persisted; the historical row stays as it was.
func (s *giveawayService) Reroll(ctx context.Context, messageID int64) (*models.GiveawayResult, error) {
	giveaway, err := s.byMessageID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if giveaway == nil || !giveaway.Ended {
		return nil, ErrNoEndedGiveaway
	}

	entrantIDs, err := s.entrants.Entrants(ctx, giveaway.GuildID, giveaway.ChannelID, giveaway.MessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entrants: %w", err)
	}

	return &models.GiveawayResult{
		Giveaway:  giveaway,
		WinnerIDs: drawWinners(entrantIDs, giveaway.WinnersCount),
		Entrants:  len(entrantIDs),
	}, nil
}

// FinalizeDue finalizes every giveaway past its deadline. Each row gets its
// own timeout and its failures are logged, never propagated: one broken
// giveaway must not block the rest of the sweep.
func (s *giveawayService) FinalizeDue(ctx context.Context, now time.Time) error {
	due, err := s.listDue(ctx, now)
	if err != nil {
		return err
	}

	for _, giveaway := range due {
		rowCtx, cancel := context.WithTimeout(ctx, s.finalizeTimeout)
		if _, err := s.finalize(rowCtx, giveaway); err != nil {
			log.WithFields(log.Fields{
				"giveawayID": giveaway.ID,
				"guildID":    giveaway.GuildID,
			}).Errorf("Failed to finalize giveaway: %v", err)
		}
		cancel()
	}

	return nil
}

// finalize runs the one-time ending of a giveaway. The entrant list is
// recomputed from the live announcement reactions, never from memory: the
// process may have restarted since the giveaway was created. The ended flag
// is persisted before any notification so a broken notifier cannot make the
// sweep loop on the same row forever.
func (s *giveawayService) finalize(ctx context.Context, giveaway *models.Giveaway) (*models.GiveawayResult, error) {
	entrantIDs, err := s.entrants.Entrants(ctx, giveaway.GuildID, giveaway.ChannelID, giveaway.MessageID)
	if errors.Is(err, ErrAnnouncementGone) {
		// Guild or channel deleted out from under us: skip the row and
		// leave it unended.
		log.WithField("giveawayID", giveaway.ID).Debug("Giveaway announcement gone, skipping")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entrants: %w", err)
	}

	result := &models.GiveawayResult{
		Giveaway:  giveaway,
		WinnerIDs: drawWinners(entrantIDs, giveaway.WinnersCount),
		Entrants:  len(entrantIDs),
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GiveawayRepository().MarkEnded(ctx, giveaway.ID); err != nil {
		return nil, fmt.Errorf("failed to mark giveaway ended: %w", err)
	}

	uow.EventBus().Publish(events.GiveawayEndedEvent{
		GiveawayID: giveaway.ID,
		GuildID:    giveaway.GuildID,
		ChannelID:  giveaway.ChannelID,
		WinnerIDs:  result.WinnerIDs,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit giveaway end: %w", err)
	}
	giveaway.Ended = true

	// Best effort from here on: the giveaway is ended whether or not the
	// result can be announced.
	if err := s.notifier.GiveawayEnded(ctx, result); err != nil {
		log.WithField("giveawayID", giveaway.ID).Warnf("Failed to announce giveaway result: %v", err)
	}

	return result, nil
}

func (s *giveawayService) byMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	giveaway, err := uow.GiveawayRepository().GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up giveaway: %w", err)
	}
	return giveaway, nil
}

func (s *giveawayService) listDue(ctx context.Context, now time.Time) ([]*models.Giveaway, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	due, err := uow.GiveawayRepository().ListDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due giveaways: %w", err)
	}
	return due, nil
}

// drawWinners picks up to winnersCount distinct winners from the entrants
func drawWinners(entrantIDs []int64, winnersCount int) []int64 {
	if len(entrantIDs) == 0 {
		return nil
	}

	shuffled := make([]int64, len(entrantIDs))
	copy(shuffled, entrantIDs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if winnersCount > len(shuffled) {
		winnersCount = len(shuffled)
	}
	return shuffled[:winnersCount]
}
