package events

import (
	"context"
	"sync"

	"npnbot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTicketOpened    EventType = "ticket_opened"
	EventTypeTicketClosed    EventType = "ticket_closed"
	EventTypeGiveawayEnded   EventType = "giveaway_ended"
	EventTypePollEnded       EventType = "poll_ended"
	EventTypeSpamActionTaken EventType = "spam_action_taken"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// TicketOpenedEvent represents a newly opened ticket
type TicketOpenedEvent struct {
	GuildID      int64
	ChannelID    int64
	UserID       int64
	TicketNumber int64
}

func (e TicketOpenedEvent) Type() EventType {
	return EventTypeTicketOpened
}

// TicketClosedEvent represents a closed ticket
type TicketClosedEvent struct {
	GuildID   int64
	ChannelID int64
	ClosedBy  int64
}

func (e TicketClosedEvent) Type() EventType {
	return EventTypeTicketClosed
}

// GiveawayEndedEvent represents a finalized giveaway
type GiveawayEndedEvent struct {
	GiveawayID int64
	GuildID    int64
	ChannelID  int64
	WinnerIDs  []int64
}

func (e GiveawayEndedEvent) Type() EventType {
	return EventTypeGiveawayEnded
}

// PollEndedEvent represents a finalized poll
type PollEndedEvent struct {
	PollID     int64
	GuildID    int64
	ChannelID  int64
	TotalVotes int
}

func (e PollEndedEvent) Type() EventType {
	return EventTypePollEnded
}

// SpamActionTakenEvent represents a moderation action against a spammer
type SpamActionTakenEvent struct {
	GuildID int64
	UserID  int64
	Action  models.SpamAction
	Reason  string
}

func (e SpamActionTakenEvent) Type() EventType {
	return EventTypeSpamActionTaken
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work.
// Flushes to the underlying event bus after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events; called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction context
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
