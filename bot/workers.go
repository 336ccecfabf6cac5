package bot

import (
	"context"
	"time"

	"npnbot/service"

	log "github.com/sirupsen/logrus"
)

// StartExpirySweepWorker starts a background worker that finalizes giveaways
// and polls whose deadlines have passed.
// Returns a cleanup function that stops the worker and blocks until any
// in-flight sweep has finished.
func (b *Bot) StartExpirySweepWorker(ctx context.Context, giveawayService service.GiveawayService, pollService service.PollService, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})
	done := make(chan struct{})

	// Shutdown cancels ctx before the cleanup function runs. A sweep that is
	// already underway must still finish, so the work itself runs on a
	// context detached from cancellation; each row is bounded by its own
	// per-row timeout inside FinalizeDue.
	sweepCtx := context.WithoutCancel(ctx)

	sweep := func() {
		now := time.Now().UTC()

		if err := giveawayService.FinalizeDue(sweepCtx, now); err != nil {
			log.Errorf("Error finalizing due giveaways: %v", err)
		}
		if err := pollService.FinalizeDue(sweepCtx, now); err != nil {
			log.Errorf("Error finalizing due polls: %v", err)
		}
	}

	go func() {
		defer close(done)

		log.Info("Expiry sweep worker started")

		// Run immediately on startup to catch deadlines missed while down
		sweep()

		for {
			select {
			case <-ctx.Done():
				log.Info("Expiry sweep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Expiry sweep worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
		<-done
	}
}
