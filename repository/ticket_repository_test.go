package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"npnbot/models"
	"npnbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		ticket := testutil.CreateTestTicket(100, 1, 10, 1)
		err := repo.Create(ctx, ticket)
		require.NoError(t, err)
		assert.False(t, ticket.CreatedAt.IsZero())

		found, err := repo.GetOpenByChannel(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, int64(10), found.UserID)
		assert.Equal(t, int64(1), found.TicketNumber)
		assert.True(t, found.IsOpen())
	})

	t.Run("second open ticket for same user rejected", func(t *testing.T) {
		ticket := testutil.CreateTestTicket(101, 2, 20, 1)
		require.NoError(t, repo.Create(ctx, ticket))

		duplicate := testutil.CreateTestTicket(102, 2, 20, 2)
		err := repo.Create(ctx, duplicate)
		assert.Error(t, err)
	})

	t.Run("new open ticket allowed after close", func(t *testing.T) {
		ticket := testutil.CreateTestTicket(103, 3, 30, 1)
		require.NoError(t, repo.Create(ctx, ticket))

		require.NoError(t, repo.Close(ctx, 103, time.Now().UTC()))

		reopened := testutil.CreateTestTicket(104, 3, 30, 2)
		assert.NoError(t, repo.Create(ctx, reopened))
	})
}

func TestTicketRepository_Close(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	t.Run("closes open ticket", func(t *testing.T) {
		ticket := testutil.CreateTestTicket(200, 1, 10, 1)
		require.NoError(t, repo.Create(ctx, ticket))

		closedAt := time.Now().UTC()
		require.NoError(t, repo.Close(ctx, 200, closedAt))

		found, err := repo.GetOpenByChannel(ctx, 200)
		require.NoError(t, err)
		assert.Nil(t, found)

		byUser, err := repo.GetOpenByUser(ctx, 1, 10)
		require.NoError(t, err)
		assert.Nil(t, byUser)
	})

	t.Run("closing twice fails", func(t *testing.T) {
		ticket := testutil.CreateTestTicket(201, 2, 20, 1)
		require.NoError(t, repo.Create(ctx, ticket))

		require.NoError(t, repo.Close(ctx, 201, time.Now().UTC()))
		assert.Error(t, repo.Close(ctx, 201, time.Now().UTC()))
	})

	t.Run("closing a non-ticket channel fails", func(t *testing.T) {
		assert.Error(t, repo.Close(ctx, 9999, time.Now().UTC()))
	})
}

func TestTicketCounterRepository_Increment(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketCounterRepository(testDB.DB)
	ctx := context.Background()

	t.Run("starts from one", func(t *testing.T) {
		counter, err := repo.Increment(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counter)
	})

	t.Run("advances sequentially", func(t *testing.T) {
		for want := int64(2); want <= 5; want++ {
			counter, err := repo.Increment(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, want, counter)
		}

		current, err := repo.Current(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), current)
	})

	t.Run("guilds are independent", func(t *testing.T) {
		counter, err := repo.Increment(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counter)
	})

	t.Run("current without counter row is zero", func(t *testing.T) {
		current, err := repo.Current(ctx, 999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), current)
	})

	t.Run("concurrent increments never collide", func(t *testing.T) {
		const workers = 10

		var mu sync.Mutex
		seen := make(map[int64]bool)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				counter, err := repo.Increment(ctx, 3)
				assert.NoError(t, err)
				mu.Lock()
				assert.False(t, seen[counter], "counter value %d issued twice", counter)
				seen[counter] = true
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, seen, workers)

		current, err := repo.Current(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(workers), current)
	})
}

func TestTicketRepository_GetOpenByUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no ticket", func(t *testing.T) {
		ticket, err := repo.GetOpenByUser(ctx, 1, 10)
		require.NoError(t, err)
		assert.Nil(t, ticket)
	})

	t.Run("finds open ticket", func(t *testing.T) {
		created := testutil.CreateTestTicket(300, 1, 10, 7)
		require.NoError(t, repo.Create(ctx, created))

		ticket, err := repo.GetOpenByUser(ctx, 1, 10)
		require.NoError(t, err)
		require.NotNil(t, ticket)
		assert.Equal(t, int64(300), ticket.ChannelID)
		assert.Equal(t, models.TicketStatusOpen, ticket.Status)
	})
}
