package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	// Create main event bus
	mainBus := NewBus()

	// Create transactional bus that wraps the main bus
	transactionalBus := NewTransactionalBus(mainBus)

	// Set up a channel to capture received events
	eventReceived := make(chan GiveawayEndedEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	// Subscribe to giveaway ended events on the main bus
	mainBus.Subscribe(EventTypeGiveawayEnded, func(ctx context.Context, event Event) {
		defer wg.Done()
		if giveawayEvent, ok := event.(GiveawayEndedEvent); ok {
			select {
			case eventReceived <- giveawayEvent:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected GiveawayEndedEvent, got %T", event)
		}
	})

	// Create a test event
	testEvent := GiveawayEndedEvent{
		GiveawayID: 42,
		GuildID:    789,
		ChannelID:  456,
		WinnerIDs:  []int64{123456, 654321},
	}

	// Publish event to transactional bus (simulating service layer)
	transactionalBus.Publish(testEvent)

	// Flush events (simulating successful transaction commit)
	ctx := context.Background()
	err := transactionalBus.Flush(ctx)
	assert.NoError(t, err)

	// Wait for event to be processed
	wg.Wait()

	// Verify the event arrived intact
	select {
	case received := <-eventReceived:
		assert.Equal(t, testEvent.GiveawayID, received.GiveawayID)
		assert.Equal(t, testEvent.GuildID, received.GuildID)
		assert.Equal(t, testEvent.WinnerIDs, received.WinnerIDs)
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for event")
	}
}

// TestDiscardDropsPendingEvents verifies rolled back events never reach handlers
func TestDiscardDropsPendingEvents(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	delivered := make(chan Event, 1)
	mainBus.Subscribe(EventTypePollEnded, func(ctx context.Context, event Event) {
		delivered <- event
	})

	transactionalBus.Publish(PollEndedEvent{PollID: 1, GuildID: 2, ChannelID: 3, TotalVotes: 4})

	// Simulate transaction rollback
	transactionalBus.Discard()

	// A later flush must deliver nothing
	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	select {
	case <-delivered:
		t.Fatal("Discarded event was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestFlushClearsPending verifies a second flush does not redeliver events
func TestFlushClearsPending(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	var mu sync.Mutex
	deliveries := 0
	done := make(chan struct{}, 2)
	mainBus.Subscribe(EventTypeTicketOpened, func(ctx context.Context, event Event) {
		mu.Lock()
		deliveries++
		mu.Unlock()
		done <- struct{}{}
	})

	transactionalBus.Publish(TicketOpenedEvent{GuildID: 1, ChannelID: 2, UserID: 3, TicketNumber: 4})

	assert.NoError(t, transactionalBus.Flush(context.Background()))
	<-done

	assert.NoError(t, transactionalBus.Flush(context.Background()))

	select {
	case <-done:
		t.Fatal("Second flush redelivered the event")
	case <-time.After(100 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, deliveries)
}
