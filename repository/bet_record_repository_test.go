package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betslip/models"
	"betslip/repository/testutil"
	"betslip/service"
)

func TestBetRecordRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBetRecordRepository(testDB.DB)
	ctx := context.Background()

	record, err := repo.Create(ctx, "user-1", testutil.BetFieldsWithOdds("Lakers ML", "+125", 25))
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "user-1", record.UserID)
	assert.Equal(t, "Lakers ML", record.Title)
	assert.Equal(t, "+125", record.Odds)
	assert.Equal(t, 25.0, record.Stake)
	assert.Equal(t, models.BetStatusPending, record.Status)
	assert.Nil(t, record.Profit)
	assert.False(t, record.CreatedAt.IsZero())
	assert.Equal(t, record.CreatedAt, record.UpdatedAt)
}

func TestBetRecordRepository_GetByID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBetRecordRepository(testDB.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, "user-1", testutil.BetFields("Celtics -3.5"))
	require.NoError(t, err)

	t.Run("found for owner", func(t *testing.T) {
		record, err := repo.GetByID(ctx, "user-1", created.ID)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, created.ID, record.ID)
	})

	t.Run("absent id", func(t *testing.T) {
		record, err := repo.GetByID(ctx, "user-1", "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("another user's record is invisible", func(t *testing.T) {
		record, err := repo.GetByID(ctx, "user-2", created.ID)
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}

func TestBetRecordRepository_GetByUser_Ordering(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBetRecordRepository(testDB.DB)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		record, err := repo.Create(ctx, "user-1", testutil.BetFields(title))
		require.NoError(t, err)
		ids = append(ids, record.ID)
		time.Sleep(10 * time.Millisecond)
	}

	// Another user's record must not leak into the collection
	_, err := repo.Create(ctx, "user-2", testutil.BetFields("other"))
	require.NoError(t, err)

	records, err := repo.GetByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first
	assert.Equal(t, ids[2], records[0].ID)
	assert.Equal(t, ids[1], records[1].ID)
	assert.Equal(t, ids[0], records[2].ID)
	for i := 0; i < len(records)-1; i++ {
		assert.False(t, records[i].CreatedAt.Before(records[i+1].CreatedAt))
	}
}

func TestBetRecordRepository_GetByUser_Empty(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBetRecordRepository(testDB.DB)

	records, err := repo.GetByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestBetRecordRepository_UpdateStatus(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBetRecordRepository(testDB.DB)
	ctx := context.Background()

	t.Run("won persists status and profit together", func(t *testing.T) {
		created, err := repo.Create(ctx, "user-1", testutil.BetFieldsWithOdds("win me", "+110", 50))
		require.NoError(t, err)

		profit := 55.0
		err = repo.UpdateStatus(ctx, "user-1", created.ID, models.BetStatusWon, &profit)
		require.NoError(t, err)

		record, err := repo.GetByID(ctx, "user-1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BetStatusWon, record.Status)
		require.NotNil(t, record.Profit)
		assert.Equal(t, 55.0, *record.Profit)
		assert.True(t, record.UpdatedAt.After(record.CreatedAt))
	})

	t.Run("lost clears any prior profit", func(t *testing.T) {
		created, err := repo.Create(ctx, "user-1", testutil.BetFields("lose me"))
		require.NoError(t, err)

		profit := 55.0
		require.NoError(t, repo.UpdateStatus(ctx, "user-1", created.ID, models.BetStatusWon, &profit))
		require.NoError(t, repo.UpdateStatus(ctx, "user-1", created.ID, models.BetStatusLost, nil))

		record, err := repo.GetByID(ctx, "user-1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BetStatusLost, record.Status)
		assert.Nil(t, record.Profit)
	})

	t.Run("stray profit is ignored for non-won status", func(t *testing.T) {
		created, err := repo.Create(ctx, "user-1", testutil.BetFields("still pending"))
		require.NoError(t, err)

		profit := 99.0
		require.NoError(t, repo.UpdateStatus(ctx, "user-1", created.ID, models.BetStatusLost, &profit))

		record, err := repo.GetByID(ctx, "user-1", created.ID)
		require.NoError(t, err)
		assert.Nil(t, record.Profit)
	})

	t.Run("not found for wrong user", func(t *testing.T) {
		created, err := repo.Create(ctx, "user-1", testutil.BetFields("mine"))
		require.NoError(t, err)

		err = repo.UpdateStatus(ctx, "user-2", created.ID, models.BetStatusLost, nil)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestBetRecordRepository_Delete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBetRecordRepository(testDB.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, "user-1", testutil.BetFields("delete me"))
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, "user-1", created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Repeated delete reports nothing removed, without error
	deleted, err = repo.Delete(ctx, "user-1", created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	record, err := repo.GetByID(ctx, "user-1", created.ID)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestBetRecordRepository_GetStats(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBetRecordRepository(testDB.DB)
	ctx := context.Background()

	won, err := repo.Create(ctx, "user-1", testutil.BetFieldsWithOdds("won", "+110", 50))
	require.NoError(t, err)
	profit := 55.0
	require.NoError(t, repo.UpdateStatus(ctx, "user-1", won.ID, models.BetStatusWon, &profit))

	lost, err := repo.Create(ctx, "user-1", testutil.BetFieldsWithOdds("lost", "-150", 75))
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, "user-1", lost.ID, models.BetStatusLost, nil))

	_, err = repo.Create(ctx, "user-1", testutil.BetFieldsWithOdds("open", "+200", 10))
	require.NoError(t, err)

	stats, err := repo.GetStats(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalBets)
	assert.Equal(t, 1, stats.PendingBets)
	assert.Equal(t, 1, stats.WonBets)
	assert.Equal(t, 1, stats.LostBets)
	assert.Equal(t, 135.0, stats.TotalStaked)
	assert.Equal(t, 55.0, stats.TotalProfit)
	assert.Equal(t, 75.0, stats.TotalLost)
	assert.Equal(t, 55.0, stats.BiggestWin)
	assert.Equal(t, 75.0, stats.BiggestStake)
	assert.Equal(t, 50.0, stats.WinPercentage())
	assert.Equal(t, -20.0, stats.NetProfit())
}
