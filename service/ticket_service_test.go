package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"npnbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTicketService_OpenTicket(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTicketRepo := new(MockTicketRepository)
	mockCounterRepo := new(MockTicketCounterRepository)
	mockChannels := new(MockTicketChannelCreator)

	mockUoW.SetRepositories(nil, mockTicketRepo, mockCounterRepo, nil, nil, nil, nil, nil, nil, nil, nil)

	service := NewTicketService(mockFactory, mockChannels)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTicketRepo.On("GetOpenByUser", ctx, int64(1), int64(10)).Return(nil, nil)
	mockCounterRepo.On("Increment", ctx, int64(1)).Return(int64(7), nil)
	mockChannels.On("CreateTicketChannel", ctx, int64(1), int64(10), int64(7)).Return(int64(555), nil)
	mockTicketRepo.On("Create", ctx, mock.MatchedBy(func(ticket *models.Ticket) bool {
		return ticket.ChannelID == 555 &&
			ticket.GuildID == 1 &&
			ticket.UserID == 10 &&
			ticket.TicketNumber == 7 &&
			ticket.Status == models.TicketStatusOpen
	})).Return(nil)

	ticket, err := service.OpenTicket(ctx, 1, 10)

	assert.NoError(t, err)
	assert.NotNil(t, ticket)
	assert.Equal(t, int64(555), ticket.ChannelID)
	assert.Equal(t, int64(7), ticket.TicketNumber)

	mockFactory.AssertExpectations(t)
	mockTicketRepo.AssertExpectations(t)
	mockCounterRepo.AssertExpectations(t)
	mockChannels.AssertExpectations(t)
}

func TestTicketService_OpenTicket_AlreadyOpen(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTicketRepo := new(MockTicketRepository)
	mockChannels := new(MockTicketChannelCreator)

	mockUoW.SetRepositories(nil, mockTicketRepo, nil, nil, nil, nil, nil, nil, nil, nil, nil)

	service := NewTicketService(mockFactory, mockChannels)

	existing := &models.Ticket{
		ChannelID:    321,
		GuildID:      1,
		UserID:       10,
		TicketNumber: 3,
		Status:       models.TicketStatusOpen,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockTicketRepo.On("GetOpenByUser", ctx, int64(1), int64(10)).Return(existing, nil)

	ticket, err := service.OpenTicket(ctx, 1, 10)

	assert.Nil(t, ticket)
	te := AsTicketExists(err)
	assert.NotNil(t, te)
	assert.Equal(t, int64(321), te.ChannelID)

	// No channel may be created for a rejected request
	mockChannels.AssertNotCalled(t, "CreateTicketChannel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTicketService_OpenTicket_RaceLosesToWinner(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTicketRepo := new(MockTicketRepository)
	mockCounterRepo := new(MockTicketCounterRepository)
	mockChannels := new(MockTicketChannelCreator)

	mockUoW.SetRepositories(nil, mockTicketRepo, mockCounterRepo, nil, nil, nil, nil, nil, nil, nil, nil)

	service := NewTicketService(mockFactory, mockChannels)

	winner := &models.Ticket{ChannelID: 777, GuildID: 1, UserID: 10, Status: models.TicketStatusOpen}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// First check passes, the insert hits the unique index, the re-check
	// finds the concurrent winner
	mockTicketRepo.On("GetOpenByUser", ctx, int64(1), int64(10)).Return(nil, nil).Once()
	mockCounterRepo.On("Increment", ctx, int64(1)).Return(int64(8), nil)
	mockChannels.On("CreateTicketChannel", ctx, int64(1), int64(10), int64(8)).Return(int64(556), nil)
	mockChannels.On("DeleteTicketChannel", ctx, int64(556)).Return(nil)
	mockTicketRepo.On("Create", ctx, mock.Anything).Return(errors.New("duplicate key value violates unique constraint"))
	mockTicketRepo.On("GetOpenByUser", ctx, int64(1), int64(10)).Return(winner, nil).Once()

	ticket, err := service.OpenTicket(ctx, 1, 10)

	assert.Nil(t, ticket)
	te := AsTicketExists(err)
	assert.NotNil(t, te)
	assert.Equal(t, int64(777), te.ChannelID)

	// The loser's channel must not be left orphaned in the guild
	mockChannels.AssertCalled(t, "DeleteTicketChannel", ctx, int64(556))
	mockTicketRepo.AssertExpectations(t)
}

func TestTicketService_OpenTicket_RecordFailureDeletesChannel(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTicketRepo := new(MockTicketRepository)
	mockCounterRepo := new(MockTicketCounterRepository)
	mockChannels := new(MockTicketChannelCreator)

	mockUoW.SetRepositories(nil, mockTicketRepo, mockCounterRepo, nil, nil, nil, nil, nil, nil, nil, nil)

	service := NewTicketService(mockFactory, mockChannels)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTicketRepo.On("GetOpenByUser", ctx, int64(1), int64(10)).Return(nil, nil)
	mockCounterRepo.On("Increment", ctx, int64(1)).Return(int64(9), nil)
	mockChannels.On("CreateTicketChannel", ctx, int64(1), int64(10), int64(9)).Return(int64(557), nil)
	// Cleanup failure must not mask the original error either
	mockChannels.On("DeleteTicketChannel", ctx, int64(557)).Return(errors.New("missing permission"))
	mockTicketRepo.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))

	ticket, err := service.OpenTicket(ctx, 1, 10)

	assert.Nil(t, ticket)
	assert.ErrorContains(t, err, "failed to record ticket")
	assert.Nil(t, AsTicketExists(err))

	mockChannels.AssertCalled(t, "DeleteTicketChannel", ctx, int64(557))
	mockChannels.AssertExpectations(t)
}

// racyCounterRepo increments a plain field with a deliberate yield between
// the read and the write. Without external serialization two concurrent
// callers would observe the same value.
type racyCounterRepo struct {
	counter int64
}

func (r *racyCounterRepo) Increment(ctx context.Context, guildID int64) (int64, error) {
	value := r.counter
	time.Sleep(time.Millisecond)
	value++
	r.counter = value
	return value, nil
}

func (r *racyCounterRepo) Current(ctx context.Context, guildID int64) (int64, error) {
	return r.counter, nil
}

func TestTicketService_AllocateNumber_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	ctx := context.Background()

	counterRepo := &racyCounterRepo{}

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW.SetRepositories(nil, nil, counterRepo, nil, nil, nil, nil, nil, nil, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	service := &ticketService{uowFactory: mockFactory}

	const workers = 20

	var mu sync.Mutex
	seen := make(map[int64]bool)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := service.allocateNumber(ctx, 1)
			assert.NoError(t, err)
			mu.Lock()
			assert.False(t, seen[number], "ticket number %d issued twice", number)
			seen[number] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers)
	assert.Equal(t, int64(workers), counterRepo.counter)
}

func TestTicketService_CloseTicket(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTicketRepo := new(MockTicketRepository)

	mockUoW.SetRepositories(nil, mockTicketRepo, nil, nil, nil, nil, nil, nil, nil, nil, nil)

	service := NewTicketService(mockFactory, new(MockTicketChannelCreator))

	open := &models.Ticket{
		ChannelID:    555,
		GuildID:      1,
		UserID:       10,
		TicketNumber: 7,
		Status:       models.TicketStatusOpen,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockTicketRepo.On("GetOpenByChannel", ctx, int64(555)).Return(open, nil)
	mockTicketRepo.On("Close", ctx, int64(555), mock.AnythingOfType("time.Time")).Return(nil)

	ticket, err := service.CloseTicket(ctx, 555, 99)

	assert.NoError(t, err)
	assert.NotNil(t, ticket)
	assert.Equal(t, models.TicketStatusClosed, ticket.Status)
	assert.NotNil(t, ticket.ClosedAt)

	mockTicketRepo.AssertExpectations(t)
}

func TestTicketService_CloseTicket_NotTicketChannel(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTicketRepo := new(MockTicketRepository)

	mockUoW.SetRepositories(nil, mockTicketRepo, nil, nil, nil, nil, nil, nil, nil, nil, nil)

	service := NewTicketService(mockFactory, new(MockTicketChannelCreator))

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockTicketRepo.On("GetOpenByChannel", ctx, int64(444)).Return(nil, nil)

	ticket, err := service.CloseTicket(ctx, 444, 99)

	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, ErrNotTicketChannel)
	mockTicketRepo.AssertNotCalled(t, "Close", mock.Anything, mock.Anything, mock.Anything)
}
