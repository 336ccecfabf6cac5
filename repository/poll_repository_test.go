package repository

import (
	"context"
	"testing"
	"time"

	"npnbot/models"
	"npnbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPollRepository(testDB.DB)
	ctx := context.Background()

	t.Run("options round trip in order", func(t *testing.T) {
		options := []string{"Red", "Green", "Blue"}
		poll := testutil.CreateTestPollWithOptions(1, 10, 100, options)
		require.NoError(t, repo.Create(ctx, poll))
		assert.NotZero(t, poll.ID)

		found, err := repo.GetByMessageID(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, options, found.Options)
		assert.False(t, found.Ended)
	})

	t.Run("unknown message returns nil", func(t *testing.T) {
		found, err := repo.GetByMessageID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestPollRepository_ListDue(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPollRepository(testDB.DB)
	ctx := context.Background()
	now := time.Now().UTC()

	past := testutil.CreateTestPoll(1, 10, 200)
	pastEnd := now.Add(-time.Minute)
	past.EndTime = &pastEnd
	require.NoError(t, repo.Create(ctx, past))

	future := testutil.CreateTestPoll(1, 10, 201)
	require.NoError(t, repo.Create(ctx, future))

	open := testutil.CreateTestPoll(1, 10, 202)
	open.EndTime = nil
	require.NoError(t, repo.Create(ctx, open))

	due, err := repo.ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, past.ID, due[0].ID)

	t.Run("ended polls drop out", func(t *testing.T) {
		require.NoError(t, repo.MarkEnded(ctx, past.ID))

		due, err := repo.ListDue(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, due)
	})
}

func TestPollVoteRepository_Upsert(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	pollRepo := NewPollRepository(testDB.DB)
	voteRepo := NewPollVoteRepository(testDB.DB)
	ctx := context.Background()

	poll := testutil.CreateTestPollWithOptions(1, 10, 300, []string{"A", "B", "C"})
	require.NoError(t, pollRepo.Create(ctx, poll))

	t.Run("re-vote overwrites instead of adding", func(t *testing.T) {
		require.NoError(t, voteRepo.Upsert(ctx, &models.PollVote{PollID: poll.ID, UserID: 1, OptionIndex: 0}))
		require.NoError(t, voteRepo.Upsert(ctx, &models.PollVote{PollID: poll.ID, UserID: 1, OptionIndex: 2}))

		counts, err := voteRepo.CountByOption(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, map[int]int{2: 1}, counts)
	})

	t.Run("tallies multiple voters", func(t *testing.T) {
		require.NoError(t, voteRepo.Upsert(ctx, &models.PollVote{PollID: poll.ID, UserID: 2, OptionIndex: 0}))
		require.NoError(t, voteRepo.Upsert(ctx, &models.PollVote{PollID: poll.ID, UserID: 3, OptionIndex: 0}))

		counts, err := voteRepo.CountByOption(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, map[int]int{0: 2, 2: 1}, counts)
	})

	t.Run("no votes yields empty map", func(t *testing.T) {
		other := testutil.CreateTestPoll(1, 10, 301)
		require.NoError(t, pollRepo.Create(ctx, other))

		counts, err := voteRepo.CountByOption(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, counts)
	})
}

func TestGiveawayRepository_ListDue(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGiveawayRepository(testDB.DB)
	ctx := context.Background()
	now := time.Now().UTC()

	due := testutil.CreateTestGiveawayEndingAt(1, 10, 400, now.Add(-time.Minute))
	require.NoError(t, repo.Create(ctx, due))

	pending := testutil.CreateTestGiveawayEndingAt(1, 10, 401, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, pending))

	rows, err := repo.ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, due.ID, rows[0].ID)

	t.Run("marking ended is sticky", func(t *testing.T) {
		require.NoError(t, repo.MarkEnded(ctx, due.ID))

		rows, err := repo.ListDue(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, rows)

		found, err := repo.GetByMessageID(ctx, 400)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.Ended)
	})

	t.Run("duplicate announcement message rejected", func(t *testing.T) {
		dup := testutil.CreateTestGiveaway(1, 10, 400)
		assert.Error(t, repo.Create(ctx, dup))
	})
}
