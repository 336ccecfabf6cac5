package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"npnbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func activePoll(id, messageID int64, options []string) *models.Poll {
	end := time.Now().Add(-time.Minute)
	return &models.Poll{
		ID:        id,
		GuildID:   1,
		ChannelID: 10,
		MessageID: messageID,
		Question:  "Which one?",
		Options:   options,
		CreatorID: 99,
		EndTime:   &end,
	}
}

func TestPollService_CastVote(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPollRepo := new(MockPollRepository)
	mockVoteRepo := new(MockPollVoteRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockPollRepo, mockVoteRepo, nil, nil, nil, nil)

	service := NewPollService(mockFactory, new(MockPollNotifier), 15*time.Second)

	poll := activePoll(1, 100, []string{"A", "B"})

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPollRepo.On("GetByMessageID", ctx, int64(100)).Return(poll, nil)
	mockVoteRepo.On("Upsert", ctx, mock.MatchedBy(func(vote *models.PollVote) bool {
		return vote.PollID == 1 && vote.UserID == 42 && vote.OptionIndex == 1
	})).Return(nil)

	voted, err := service.CastVote(ctx, 100, 42, 1)

	assert.NoError(t, err)
	assert.NotNil(t, voted)

	mockVoteRepo.AssertExpectations(t)
}

func TestPollService_CastVote_Ignored(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPollRepo := new(MockPollRepository)
	mockVoteRepo := new(MockPollVoteRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockPollRepo, mockVoteRepo, nil, nil, nil, nil)

	service := NewPollService(mockFactory, new(MockPollNotifier), 15*time.Second)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	t.Run("not a poll message", func(t *testing.T) {
		mockPollRepo.On("GetByMessageID", ctx, int64(200)).Return(nil, nil).Once()

		voted, err := service.CastVote(ctx, 200, 42, 0)
		assert.NoError(t, err)
		assert.Nil(t, voted)
	})

	t.Run("ended poll", func(t *testing.T) {
		ended := activePoll(2, 201, []string{"A", "B"})
		ended.Ended = true
		mockPollRepo.On("GetByMessageID", ctx, int64(201)).Return(ended, nil).Once()

		voted, err := service.CastVote(ctx, 201, 42, 0)
		assert.NoError(t, err)
		assert.Nil(t, voted)
	})

	t.Run("option out of range", func(t *testing.T) {
		poll := activePoll(3, 202, []string{"A", "B"})
		mockPollRepo.On("GetByMessageID", ctx, int64(202)).Return(poll, nil).Once()

		voted, err := service.CastVote(ctx, 202, 42, 2)
		assert.NoError(t, err)
		assert.Nil(t, voted)
	})

	mockVoteRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPollService_EndEarly_TalliesStoredVotes(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPollRepo := new(MockPollRepository)
	mockVoteRepo := new(MockPollVoteRepository)
	mockNotifier := new(MockPollNotifier)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockPollRepo, mockVoteRepo, nil, nil, nil, nil)

	service := NewPollService(mockFactory, mockNotifier, 15*time.Second)

	poll := activePoll(4, 300, []string{"Yes", "No"})

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPollRepo.On("GetByMessageID", ctx, int64(300)).Return(poll, nil)
	mockVoteRepo.On("CountByOption", ctx, int64(4)).Return(map[int]int{0: 2, 1: 1}, nil)
	mockPollRepo.On("MarkEnded", ctx, int64(4)).Return(nil)
	mockNotifier.On("PollEnded", ctx, mock.AnythingOfType("*models.PollResult")).Return(nil)

	result, err := service.EndEarly(ctx, 300)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, []int{2, 1}, result.Counts)
	assert.Equal(t, 3, result.TotalVotes)
	assert.InDelta(t, 66.7, result.Percentage(0), 0.1)
	assert.InDelta(t, 33.3, result.Percentage(1), 0.1)
	assert.True(t, poll.Ended)

	mockPollRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestPollService_EndEarly_NotifierFailureStillEnds(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPollRepo := new(MockPollRepository)
	mockVoteRepo := new(MockPollVoteRepository)
	mockNotifier := new(MockPollNotifier)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockPollRepo, mockVoteRepo, nil, nil, nil, nil)

	service := NewPollService(mockFactory, mockNotifier, 15*time.Second)

	poll := activePoll(5, 400, []string{"Yes", "No"})

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPollRepo.On("GetByMessageID", ctx, int64(400)).Return(poll, nil)
	mockVoteRepo.On("CountByOption", ctx, int64(5)).Return(map[int]int{}, nil)
	mockPollRepo.On("MarkEnded", ctx, int64(5)).Return(nil)
	mockNotifier.On("PollEnded", ctx, mock.Anything).Return(errors.New("channel deleted"))

	result, err := service.EndEarly(ctx, 400)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 0, result.TotalVotes)
	assert.True(t, poll.Ended)

	mockPollRepo.AssertExpectations(t)
}

func TestPollService_EndEarly_NoActivePoll(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPollRepo := new(MockPollRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockPollRepo, nil, nil, nil, nil, nil)

	service := NewPollService(mockFactory, new(MockPollNotifier), 15*time.Second)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockPollRepo.On("GetByMessageID", ctx, int64(500)).Return(nil, nil)

	result, err := service.EndEarly(ctx, 500)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoActivePoll)
}

func TestPollService_FinalizeDue_IsolatesFailures(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPollRepo := new(MockPollRepository)
	mockVoteRepo := new(MockPollVoteRepository)
	mockNotifier := new(MockPollNotifier)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockPollRepo, mockVoteRepo, nil, nil, nil, nil)

	service := NewPollService(mockFactory, mockNotifier, 15*time.Second)

	broken := activePoll(1, 600, []string{"A", "B"})
	healthy := activePoll(2, 601, []string{"A", "B"})
	now := time.Now()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPollRepo.On("ListDue", ctx, now).Return([]*models.Poll{broken, healthy}, nil)

	mockVoteRepo.On("CountByOption", mock.Anything, int64(1)).Return(nil, errors.New("read failed"))
	mockVoteRepo.On("CountByOption", mock.Anything, int64(2)).Return(map[int]int{0: 1}, nil)
	mockPollRepo.On("MarkEnded", mock.Anything, int64(2)).Return(nil)
	mockNotifier.On("PollEnded", mock.Anything, mock.Anything).Return(nil)

	err := service.FinalizeDue(ctx, now)

	assert.NoError(t, err)
	mockPollRepo.AssertCalled(t, "MarkEnded", mock.Anything, int64(2))
	mockPollRepo.AssertNotCalled(t, "MarkEnded", mock.Anything, int64(1))
}

func TestPollService_Create_ValidatesOptions(t *testing.T) {
	ctx := context.Background()

	service := NewPollService(new(MockUnitOfWorkFactory), new(MockPollNotifier), 15*time.Second)

	t.Run("too few options", func(t *testing.T) {
		err := service.Create(ctx, &models.Poll{Options: []string{"only"}})
		assert.Error(t, err)
	})

	t.Run("too many options", func(t *testing.T) {
		options := make([]string, models.MaxPollOptions+1)
		for i := range options {
			options[i] = "option"
		}
		err := service.Create(ctx, &models.Poll{Options: options})
		assert.Error(t, err)
	})
}
