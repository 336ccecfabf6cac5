package service

import (
	"context"
	"time"

	"npnbot/events"
	"npnbot/models"
)

// GuildConfigRepository defines the interface for guild configuration data access
type GuildConfigRepository interface {
	// Get retrieves a guild's configuration, nil if none stored
	Get(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// Upsert inserts or fully replaces a guild's configuration
	Upsert(ctx context.Context, config *models.GuildConfig) error
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create inserts a new ticket row
	Create(ctx context.Context, ticket *models.Ticket) error

	// GetOpenByUser returns the user's open ticket in a guild, nil if none
	GetOpenByUser(ctx context.Context, guildID, userID int64) (*models.Ticket, error)

	// GetOpenByChannel returns the open ticket backed by a channel, nil if none
	GetOpenByChannel(ctx context.Context, channelID int64) (*models.Ticket, error)

	// Close marks a ticket closed and records the closing time
	Close(ctx context.Context, channelID int64, closedAt time.Time) error
}

// TicketCounterRepository defines the interface for per-guild ticket numbering
type TicketCounterRepository interface {
	// Increment advances the guild's counter by one and returns the new value.
	// A guild with no counter row starts from zero.
	Increment(ctx context.Context, guildID int64) (int64, error)

	// Current returns the guild's counter without advancing it
	Current(ctx context.Context, guildID int64) (int64, error)
}

// AntispamConfigRepository defines the interface for anti-spam settings data access
type AntispamConfigRepository interface {
	// Get retrieves a guild's anti-spam settings, nil if none stored
	Get(ctx context.Context, guildID int64) (*models.AntispamConfig, error)

	// Upsert inserts or replaces a guild's anti-spam settings
	Upsert(ctx context.Context, config *models.AntispamConfig) error
}

// GiveawayRepository defines the interface for giveaway data access
type GiveawayRepository interface {
	// Create inserts a new giveaway and populates its ID
	Create(ctx context.Context, giveaway *models.Giveaway) error

	// GetByMessageID returns the giveaway announced by a message, nil if none
	GetByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error)

	// ListDue returns unended giveaways whose deadline has passed
	ListDue(ctx context.Context, now time.Time) ([]*models.Giveaway, error)

	// MarkEnded sets the ended flag. The flag never reverts.
	MarkEnded(ctx context.Context, id int64) error
}

// PollRepository defines the interface for poll data access
type PollRepository interface {
	// Create inserts a new poll and populates its ID
	Create(ctx context.Context, poll *models.Poll) error

	// GetByMessageID returns the poll announced by a message, nil if none
	GetByMessageID(ctx context.Context, messageID int64) (*models.Poll, error)

	// ListDue returns unended polls whose deadline has passed
	ListDue(ctx context.Context, now time.Time) ([]*models.Poll, error)

	// MarkEnded sets the ended flag. The flag never reverts.
	MarkEnded(ctx context.Context, id int64) error
}

// PollVoteRepository defines the interface for poll ballot data access
type PollVoteRepository interface {
	// Upsert records a vote, overwriting the voter's previous choice if any
	Upsert(ctx context.Context, vote *models.PollVote) error

	// CountByOption returns per-option vote counts for a poll
	CountByOption(ctx context.Context, pollID int64) (map[int]int, error)
}

// StickyRepository defines the interface for sticky message data access
type StickyRepository interface {
	// Get returns the channel's sticky message, nil if none
	Get(ctx context.Context, channelID int64) (*models.StickyMessage, error)

	// Upsert inserts or replaces a channel's sticky message
	Upsert(ctx context.Context, sticky *models.StickyMessage) error

	// UpdateLastMessageID records the most recently posted copy
	UpdateLastMessageID(ctx context.Context, channelID, messageID int64) error

	// Delete removes the channel's sticky message, reporting whether one existed
	Delete(ctx context.Context, channelID int64) (bool, error)
}

// AFKRepository defines the interface for AFK marker data access
type AFKRepository interface {
	// Get returns the user's AFK status in a guild, nil if not AFK
	Get(ctx context.Context, userID, guildID int64) (*models.AFKStatus, error)

	// Set inserts or replaces an AFK marker
	Set(ctx context.Context, status *models.AFKStatus) error

	// Clear removes an AFK marker, reporting whether one existed
	Clear(ctx context.Context, userID, guildID int64) (bool, error)
}

// ReactionRoleRepository defines the interface for reaction role data access
type ReactionRoleRepository interface {
	// Get returns the binding for (message, emoji), nil if none
	Get(ctx context.Context, messageID int64, emoji string) (*models.ReactionRole, error)

	// Upsert inserts or replaces a binding
	Upsert(ctx context.Context, binding *models.ReactionRole) error

	// Delete removes a binding, reporting whether one existed
	Delete(ctx context.Context, messageID int64, emoji string) (bool, error)
}

// DonationRepository defines the interface for donation announcement data access
type DonationRepository interface {
	// Create inserts a new donation announcement and populates its ID
	Create(ctx context.Context, donation *models.Donation) error

	// GetByMessageID returns the donation behind a message, nil if none
	GetByMessageID(ctx context.Context, messageID int64) (*models.Donation, error)

	// UpdateContent replaces the stored content for a donation message
	UpdateContent(ctx context.Context, messageID int64, content string) error

	// ListByGuild returns a guild's donations, newest first
	ListByGuild(ctx context.Context, guildID int64, limit int) ([]*models.Donation, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork represents a transactional boundary over the repositories
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	GuildConfigRepository() GuildConfigRepository
	TicketRepository() TicketRepository
	TicketCounterRepository() TicketCounterRepository
	AntispamConfigRepository() AntispamConfigRepository
	GiveawayRepository() GiveawayRepository
	PollRepository() PollRepository
	PollVoteRepository() PollVoteRepository
	StickyRepository() StickyRepository
	AFKRepository() AFKRepository
	ReactionRoleRepository() ReactionRoleRepository
	DonationRepository() DonationRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// TicketChannelCreator creates the platform channel backing a new ticket
type TicketChannelCreator interface {
	// CreateTicketChannel creates the channel and returns its ID
	CreateTicketChannel(ctx context.Context, guildID, userID, ticketNumber int64) (int64, error)

	// DeleteTicketChannel removes a channel whose ticket was never
	// recorded, so a failed creation does not leave an orphan behind
	DeleteTicketChannel(ctx context.Context, channelID int64) error
}

// EntrantSource reads the current entrant list for a giveaway announcement.
// Implementations return ErrAnnouncementGone when the guild, channel, or
// message no longer exists.
type EntrantSource interface {
	Entrants(ctx context.Context, guildID, channelID, messageID int64) ([]int64, error)
}

// GiveawayNotifier publishes giveaway results. Best effort: failures are
// logged by callers and never block finalization.
type GiveawayNotifier interface {
	GiveawayEnded(ctx context.Context, result *models.GiveawayResult) error
}

// PollNotifier publishes poll results. Best effort, like GiveawayNotifier.
type PollNotifier interface {
	PollEnded(ctx context.Context, result *models.PollResult) error
}

// TicketService defines the interface for ticket operations
type TicketService interface {
	// OpenTicket allocates a ticket number, creates the backing channel, and
	// records the ticket. Returns ErrTicketExists if the user already has an
	// open ticket in the guild.
	OpenTicket(ctx context.Context, guildID, userID int64) (*models.Ticket, error)

	// CloseTicket closes the ticket backing a channel. Only the ticket owner
	// or an admin may close it; the caller performs the permission check.
	CloseTicket(ctx context.Context, channelID, closedBy int64) (*models.Ticket, error)

	// GetOpenTicket returns the open ticket backing a channel, nil if none
	GetOpenTicket(ctx context.Context, channelID int64) (*models.Ticket, error)
}

// GiveawayService defines the interface for giveaway operations
type GiveawayService interface {
	// Start records a newly announced giveaway
	Start(ctx context.Context, giveaway *models.Giveaway) error

	// EndEarly finalizes an active giveaway ahead of its deadline
	EndEarly(ctx context.Context, messageID int64) (*models.GiveawayResult, error)

	// Reroll draws fresh winners for an already ended giveaway
	Reroll(ctx context.Context, messageID int64) (*models.GiveawayResult, error)

	// FinalizeDue finalizes every giveaway past its deadline. Failures are
	// isolated per row; a broken giveaway never blocks the others.
	FinalizeDue(ctx context.Context, now time.Time) error
}

// PollService defines the interface for poll operations
type PollService interface {
	// Create records a newly announced poll
	Create(ctx context.Context, poll *models.Poll) error

	// CastVote records a ballot for the poll announced by messageID. A
	// repeat vote overwrites the voter's previous choice. Returns the poll
	// when the vote counted, nil when the message is not an active poll or
	// the option is out of range.
	CastVote(ctx context.Context, messageID, userID int64, optionIndex int) (*models.Poll, error)

	// EndEarly finalizes an active poll ahead of its deadline
	EndEarly(ctx context.Context, messageID int64) (*models.PollResult, error)

	// FinalizeDue finalizes every poll past its deadline, isolating failures
	// per row
	FinalizeDue(ctx context.Context, now time.Time) error
}

// GuildConfigService defines the interface for guild configuration operations
type GuildConfigService interface {
	// GetConfig returns the guild's configuration, nil if none stored
	GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// SetWelcome configures the welcome channel and optional custom message
	SetWelcome(ctx context.Context, guildID, channelID int64, message *string) error

	// SetLeave configures the leave channel and optional custom message
	SetLeave(ctx context.Context, guildID, channelID int64, message *string) error
}

// AntispamService defines the interface for anti-spam operations
type AntispamService interface {
	// Configure stores a guild's anti-spam settings
	Configure(ctx context.Context, config *models.AntispamConfig) error

	// CheckMessage records one message and returns the action to take, nil
	// when the message is fine or anti-spam is disabled for the guild
	CheckMessage(ctx context.Context, guildID, userID int64, content string, now time.Time) (*SpamVerdict, error)

	// Reset clears the in-memory tracking state, e.g. after a reconnect
	Reset()
}

// SpamVerdict is the decision to act against a spammer
type SpamVerdict struct {
	Action models.SpamAction
	Reason string
}

// StickyService defines the interface for sticky message operations
type StickyService interface {
	// Set stores the channel's sticky message content
	Set(ctx context.Context, guildID, channelID int64, content string) error

	// Remove deletes the channel's sticky message, returning the old row so
	// the caller can delete the posted copy. ErrNoSticky if none.
	Remove(ctx context.Context, channelID int64) (*models.StickyMessage, error)

	// Current returns the channel's sticky message, nil if none
	Current(ctx context.Context, channelID int64) (*models.StickyMessage, error)

	// RecordRepost stores the ID of the freshly posted copy
	RecordRepost(ctx context.Context, channelID, messageID int64) error
}

// AFKService defines the interface for AFK operations
type AFKService interface {
	// Set marks a user AFK in a guild
	Set(ctx context.Context, userID, guildID int64, reason string) error

	// Clear removes a user's AFK marker, reporting whether one existed
	Clear(ctx context.Context, userID, guildID int64) (bool, error)

	// Get returns a user's AFK status, nil if not AFK
	Get(ctx context.Context, userID, guildID int64) (*models.AFKStatus, error)
}

// ReactionRoleService defines the interface for reaction role operations
type ReactionRoleService interface {
	// Bind stores an (emoji, message) to role binding
	Bind(ctx context.Context, binding *models.ReactionRole) error

	// Unbind removes a binding, reporting whether one existed
	Unbind(ctx context.Context, messageID int64, emoji string) (bool, error)

	// Lookup returns the binding for (message, emoji), nil if none
	Lookup(ctx context.Context, messageID int64, emoji string) (*models.ReactionRole, error)
}

// DonationService defines the interface for donation announcement operations
type DonationService interface {
	// Record stores a posted donation announcement
	Record(ctx context.Context, donation *models.Donation) error

	// Edit replaces the stored content. ErrNoDonation if the message is not
	// a donation announcement.
	Edit(ctx context.Context, messageID int64, content string) (*models.Donation, error)

	// List returns a guild's donation announcements, newest first
	List(ctx context.Context, guildID int64, limit int) ([]*models.Donation, error)
}
