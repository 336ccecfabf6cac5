package service

import (
	"context"
	"time"

	"npnbot/events"
	"npnbot/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) Get(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) Upsert(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetOpenByUser(ctx context.Context, guildID, userID int64) (*models.Ticket, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetOpenByChannel(ctx context.Context, channelID int64) (*models.Ticket, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Close(ctx context.Context, channelID int64, closedAt time.Time) error {
	args := m.Called(ctx, channelID, closedAt)
	return args.Error(0)
}

// MockTicketCounterRepository is a mock implementation of TicketCounterRepository
type MockTicketCounterRepository struct {
	mock.Mock
}

func (m *MockTicketCounterRepository) Increment(ctx context.Context, guildID int64) (int64, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketCounterRepository) Current(ctx context.Context, guildID int64) (int64, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAntispamConfigRepository is a mock implementation of AntispamConfigRepository
type MockAntispamConfigRepository struct {
	mock.Mock
}

func (m *MockAntispamConfigRepository) Get(ctx context.Context, guildID int64) (*models.AntispamConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AntispamConfig), args.Error(1)
}

func (m *MockAntispamConfigRepository) Upsert(ctx context.Context, config *models.AntispamConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockGiveawayRepository is a mock implementation of GiveawayRepository
type MockGiveawayRepository struct {
	mock.Mock
}

func (m *MockGiveawayRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	args := m.Called(ctx, giveaway)
	return args.Error(0)
}

func (m *MockGiveawayRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Giveaway, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) MarkEnded(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPollRepository is a mock implementation of PollRepository
type MockPollRepository struct {
	mock.Mock
}

func (m *MockPollRepository) Create(ctx context.Context, poll *models.Poll) error {
	args := m.Called(ctx, poll)
	return args.Error(0)
}

func (m *MockPollRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Poll, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Poll), args.Error(1)
}

func (m *MockPollRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Poll, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Poll), args.Error(1)
}

func (m *MockPollRepository) MarkEnded(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPollVoteRepository is a mock implementation of PollVoteRepository
type MockPollVoteRepository struct {
	mock.Mock
}

func (m *MockPollVoteRepository) Upsert(ctx context.Context, vote *models.PollVote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockPollVoteRepository) CountByOption(ctx context.Context, pollID int64) (map[int]int, error) {
	args := m.Called(ctx, pollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

// MockStickyRepository is a mock implementation of StickyRepository
type MockStickyRepository struct {
	mock.Mock
}

func (m *MockStickyRepository) Get(ctx context.Context, channelID int64) (*models.StickyMessage, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StickyMessage), args.Error(1)
}

func (m *MockStickyRepository) Upsert(ctx context.Context, sticky *models.StickyMessage) error {
	args := m.Called(ctx, sticky)
	return args.Error(0)
}

func (m *MockStickyRepository) UpdateLastMessageID(ctx context.Context, channelID, messageID int64) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

func (m *MockStickyRepository) Delete(ctx context.Context, channelID int64) (bool, error) {
	args := m.Called(ctx, channelID)
	return args.Bool(0), args.Error(1)
}

// MockAFKRepository is a mock implementation of AFKRepository
type MockAFKRepository struct {
	mock.Mock
}

func (m *MockAFKRepository) Get(ctx context.Context, userID, guildID int64) (*models.AFKStatus, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AFKStatus), args.Error(1)
}

func (m *MockAFKRepository) Set(ctx context.Context, status *models.AFKStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockAFKRepository) Clear(ctx context.Context, userID, guildID int64) (bool, error) {
	args := m.Called(ctx, userID, guildID)
	return args.Bool(0), args.Error(1)
}

// MockReactionRoleRepository is a mock implementation of ReactionRoleRepository
type MockReactionRoleRepository struct {
	mock.Mock
}

func (m *MockReactionRoleRepository) Get(ctx context.Context, messageID int64, emoji string) (*models.ReactionRole, error) {
	args := m.Called(ctx, messageID, emoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReactionRole), args.Error(1)
}

func (m *MockReactionRoleRepository) Upsert(ctx context.Context, binding *models.ReactionRole) error {
	args := m.Called(ctx, binding)
	return args.Error(0)
}

func (m *MockReactionRoleRepository) Delete(ctx context.Context, messageID int64, emoji string) (bool, error) {
	args := m.Called(ctx, messageID, emoji)
	return args.Bool(0), args.Error(1)
}

// MockDonationRepository is a mock implementation of DonationRepository
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, donation *models.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Donation, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donation), args.Error(1)
}

func (m *MockDonationRepository) UpdateContent(ctx context.Context, messageID int64, content string) error {
	args := m.Called(ctx, messageID, content)
	return args.Error(0)
}

func (m *MockDonationRepository) ListByGuild(ctx context.Context, guildID int64, limit int) ([]*models.Donation, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Donation), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// nopEventPublisher drops events. It backs MockUnitOfWork when a test has no
// event expectations.
type nopEventPublisher struct{}

func (nopEventPublisher) Publish(events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository accessors
// return whatever SetRepositories stored; pass nil for repositories the test
// never touches.
type MockUnitOfWork struct {
	mock.Mock

	guildConfigRepo   GuildConfigRepository
	ticketRepo        TicketRepository
	ticketCounterRepo TicketCounterRepository
	antispamRepo      AntispamConfigRepository
	giveawayRepo      GiveawayRepository
	pollRepo          PollRepository
	pollVoteRepo      PollVoteRepository
	stickyRepo        StickyRepository
	afkRepo           AFKRepository
	reactionRoleRepo  ReactionRoleRepository
	donationRepo      DonationRepository
	eventPublisher    EventPublisher
}

// SetRepositories wires the mock repositories the test cares about
func (m *MockUnitOfWork) SetRepositories(
	guildConfig GuildConfigRepository,
	ticket TicketRepository,
	ticketCounter TicketCounterRepository,
	antispam AntispamConfigRepository,
	giveaway GiveawayRepository,
	poll PollRepository,
	pollVote PollVoteRepository,
	sticky StickyRepository,
	afk AFKRepository,
	reactionRole ReactionRoleRepository,
	donation DonationRepository,
) {
	m.guildConfigRepo = guildConfig
	m.ticketRepo = ticket
	m.ticketCounterRepo = ticketCounter
	m.antispamRepo = antispam
	m.giveawayRepo = giveaway
	m.pollRepo = poll
	m.pollVoteRepo = pollVote
	m.stickyRepo = sticky
	m.afkRepo = afk
	m.reactionRoleRepo = reactionRole
	m.donationRepo = donation
}

// SetEventPublisher wires the event publisher the test cares about
func (m *MockUnitOfWork) SetEventPublisher(pub EventPublisher) {
	m.eventPublisher = pub
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GuildConfigRepository() GuildConfigRepository {
	return m.guildConfigRepo
}

func (m *MockUnitOfWork) TicketRepository() TicketRepository {
	return m.ticketRepo
}

func (m *MockUnitOfWork) TicketCounterRepository() TicketCounterRepository {
	return m.ticketCounterRepo
}

func (m *MockUnitOfWork) AntispamConfigRepository() AntispamConfigRepository {
	return m.antispamRepo
}

func (m *MockUnitOfWork) GiveawayRepository() GiveawayRepository {
	return m.giveawayRepo
}

func (m *MockUnitOfWork) PollRepository() PollRepository {
	return m.pollRepo
}

func (m *MockUnitOfWork) PollVoteRepository() PollVoteRepository {
	return m.pollVoteRepo
}

func (m *MockUnitOfWork) StickyRepository() StickyRepository {
	return m.stickyRepo
}

func (m *MockUnitOfWork) AFKRepository() AFKRepository {
	return m.afkRepo
}

func (m *MockUnitOfWork) ReactionRoleRepository() ReactionRoleRepository {
	return m.reactionRoleRepo
}

func (m *MockUnitOfWork) DonationRepository() DonationRepository {
	return m.donationRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventPublisher == nil {
		return nopEventPublisher{}
	}
	return m.eventPublisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockTicketChannelCreator is a mock implementation of TicketChannelCreator
type MockTicketChannelCreator struct {
	mock.Mock
}

func (m *MockTicketChannelCreator) CreateTicketChannel(ctx context.Context, guildID, userID, ticketNumber int64) (int64, error) {
	args := m.Called(ctx, guildID, userID, ticketNumber)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketChannelCreator) DeleteTicketChannel(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

// MockEntrantSource is a mock implementation of EntrantSource
type MockEntrantSource struct {
	mock.Mock
}

func (m *MockEntrantSource) Entrants(ctx context.Context, guildID, channelID, messageID int64) ([]int64, error) {
	args := m.Called(ctx, guildID, channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockGiveawayNotifier is a mock implementation of GiveawayNotifier
type MockGiveawayNotifier struct {
	mock.Mock
}

func (m *MockGiveawayNotifier) GiveawayEnded(ctx context.Context, result *models.GiveawayResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// MockPollNotifier is a mock implementation of PollNotifier
type MockPollNotifier struct {
	mock.Mock
}

func (m *MockPollNotifier) PollEnded(ctx context.Context, result *models.PollResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}
