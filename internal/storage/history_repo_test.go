package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *HistoryRepo {
	t.Helper()
	db, err := Open(context.Background(), MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewHistoryRepo(db)
}

func record(id string, status string, created time.Time) HistoryRecord {
	return HistoryRecord{
		ID:          id,
		Title:       "quest " + id,
		Type:        "TODO",
		Status:      status,
		Priority:    "MEDIUM",
		CreatedAt:   created.UnixNano(),
		PeriodDays:  7,
		CoinReward:  10,
		CoinPenalty: 5,
	}
}

func TestHistoryInsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rec := record("a", "COMPLETED", created)
	rec.CompletedAt = sql.NullInt64{Int64: created.Add(time.Hour).UnixNano(), Valid: true}
	rec.HasReminder = true
	seq, err := repo.Insert(ctx, rec)
	require.NoError(t, err)
	require.Positive(t, seq)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "quest a", got.Title)
	require.Equal(t, created.UnixNano(), got.CreatedAt)
	require.True(t, got.CompletedAt.Valid)
	require.True(t, got.HasReminder)
	require.False(t, got.DueAt.Valid)

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	_, err = repo.Insert(ctx, rec)
	require.Error(t, err, "ids are unique in the archive")
}

func TestHistoryListTouchingMatchesCreatedOrDue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	createdToday := record("created", "FAILED", day.Add(3*time.Hour))
	dueToday := record("due", "COMPLETED", day.AddDate(0, 0, -5))
	dueToday.DueAt = sql.NullInt64{Int64: day.Add(20 * time.Hour).UnixNano(), Valid: true}
	other := record("other", "COMPLETED", next.Add(time.Minute))

	for _, r := range []HistoryRecord{createdToday, dueToday, other} {
		_, err := repo.Insert(ctx, r)
		require.NoError(t, err)
	}

	got, err := repo.ListTouching(ctx, day.UnixNano(), next.UnixNano())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "created", got[0].ID)
	require.Equal(t, "due", got[1].ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestHistoryListCompletedBetweenAndByTitle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	done := record("done", "COMPLETED", day)
	done.Type = "HABIT"
	done.Title = "Stretch"
	done.CompletedAt = sql.NullInt64{Int64: day.Add(9 * time.Hour).UnixNano(), Valid: true}
	failed := record("failed", "FAILED", day)
	failed.Type = "HABIT"
	failed.Title = "Stretch"

	for _, r := range []HistoryRecord{done, failed} {
		_, err := repo.Insert(ctx, r)
		require.NoError(t, err)
	}

	completed, err := repo.ListCompletedBetween(ctx, day.UnixNano(), day.AddDate(0, 0, 1).UnixNano())
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, "done", completed[0].ID)

	streak, err := repo.ListCompletedByTitle(ctx, "HABIT", "Stretch")
	require.NoError(t, err)
	require.Len(t, streak, 1)

	none, err := repo.ListCompletedByTitle(ctx, "TODO", "Stretch")
	require.NoError(t, err)
	require.Empty(t, none)
}
