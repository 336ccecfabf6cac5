package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"npnbot/models"
)

// blockingGiveawayFinalizer stalls inside FinalizeDue until released and
// records the state of the context it was handed.
type blockingGiveawayFinalizer struct {
	started chan struct{}
	release chan struct{}
	ctxErr  chan error
}

func (f *blockingGiveawayFinalizer) Start(ctx context.Context, giveaway *models.Giveaway) error {
	return nil
}

func (f *blockingGiveawayFinalizer) EndEarly(ctx context.Context, messageID int64) (*models.GiveawayResult, error) {
	return nil, nil
}

func (f *blockingGiveawayFinalizer) Reroll(ctx context.Context, messageID int64) (*models.GiveawayResult, error) {
	return nil, nil
}

func (f *blockingGiveawayFinalizer) FinalizeDue(ctx context.Context, now time.Time) error {
	close(f.started)
	<-f.release
	f.ctxErr <- ctx.Err()
	return nil
}

type noopPollService struct{}

func (noopPollService) Create(ctx context.Context, poll *models.Poll) error { return nil }

func (noopPollService) CastVote(ctx context.Context, messageID, userID int64, optionIndex int) (*models.Poll, error) {
	return nil, nil
}

func (noopPollService) EndEarly(ctx context.Context, messageID int64) (*models.PollResult, error) {
	return nil, nil
}

func (noopPollService) FinalizeDue(ctx context.Context, now time.Time) error { return nil }

func TestExpirySweepWorker_StopWaitsForInFlightSweep(t *testing.T) {
	giveaways := &blockingGiveawayFinalizer{
		started: make(chan struct{}),
		release: make(chan struct{}),
		ctxErr:  make(chan error, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := &Bot{}
	stop := b.StartExpirySweepWorker(ctx, giveaways, noopPollService{}, time.Hour)

	select {
	case <-giveaways.started:
	case <-time.After(time.Second):
		t.Fatal("sweep never started")
	}

	// Shutdown order in production: the run context is cancelled first,
	// then the cleanup function is called.
	cancel()

	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("stop returned while a sweep was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(giveaways.release)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop did not return after the sweep finished")
	}

	select {
	case err := <-giveaways.ctxErr:
		// Cancelling the run context must not abort work already underway
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweep context state never recorded")
	}
}

func TestExpirySweepWorker_SweepSurvivesRunContextCancel(t *testing.T) {
	giveaways := &blockingGiveawayFinalizer{
		started: make(chan struct{}),
		release: make(chan struct{}),
		ctxErr:  make(chan error, 1),
	}
	close(giveaways.release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := &Bot{}
	stop := b.StartExpirySweepWorker(ctx, giveaways, noopPollService{}, time.Hour)
	defer stop()

	select {
	case <-giveaways.started:
	case <-time.After(time.Second):
		t.Fatal("sweep never started")
	}

	select {
	case err := <-giveaways.ctxErr:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweep context state never recorded")
	}
}
