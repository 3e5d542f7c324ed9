package engine

import (
	"context"
	"database/sql"
	"time"

	"questpet/internal/storage"
)

// HistoryLog is the append-only archive of tasks that reached COMPLETED or FAILED.
type HistoryLog interface {
	Append(ctx context.Context, t Task) error
	// Get returns nil when id was never archived.
	Get(ctx context.Context, id string) (*Task, error)
	// ListTouching returns archived tasks created or due within [start, end).
	ListTouching(ctx context.Context, start, end time.Time) ([]Task, error)
	// ListCompletedBetween returns archived COMPLETED tasks finished within [start, end).
	ListCompletedBetween(ctx context.Context, start, end time.Time) ([]Task, error)
	ListCompletedByTitle(ctx context.Context, typ TaskType, title string) ([]Task, error)
}

type sqlHistory struct {
	repo *storage.HistoryRepo
	loc  *time.Location
}

// NewSQLHistory adapts a storage.HistoryRepo to the HistoryLog interface.
// Timestamps are rehydrated in loc.
func NewSQLHistory(repo *storage.HistoryRepo, loc *time.Location) HistoryLog {
	if loc == nil {
		loc = time.Local
	}
	return &sqlHistory{repo: repo, loc: loc}
}

func (h *sqlHistory) Append(ctx context.Context, t Task) error {
	_, err := h.repo.Insert(ctx, toRecord(t))
	return err
}

func (h *sqlHistory) Get(ctx context.Context, id string) (*Task, error) {
	rec, err := h.repo.Get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	t := h.fromRecord(*rec)
	return &t, nil
}

func (h *sqlHistory) ListTouching(ctx context.Context, start, end time.Time) ([]Task, error) {
	recs, err := h.repo.ListTouching(ctx, start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, err
	}
	return h.fromRecords(recs), nil
}

func (h *sqlHistory) ListCompletedBetween(ctx context.Context, start, end time.Time) ([]Task, error) {
	recs, err := h.repo.ListCompletedBetween(ctx, start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, err
	}
	return h.fromRecords(recs), nil
}

func (h *sqlHistory) ListCompletedByTitle(ctx context.Context, typ TaskType, title string) ([]Task, error) {
	recs, err := h.repo.ListCompletedByTitle(ctx, string(typ), title)
	if err != nil {
		return nil, err
	}
	return h.fromRecords(recs), nil
}

func toRecord(t Task) storage.HistoryRecord {
	return storage.HistoryRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Type:        string(t.Type),
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt.UnixNano(),
		CompletedAt: nullNanos(t.CompletedAt),
		DueAt:       nullNanos(t.DueAt),
		ReminderAt:  nullNanos(t.ReminderAt),
		HasReminder: t.HasReminder,
		PeriodDays:  t.RecurringPeriodDays,
		CoinReward:  t.CoinReward,
		CoinPenalty: t.CoinPenalty,
		StreakCount: t.StreakCount,
		IsOverdue:   t.IsOverdue,
	}
}

func (h *sqlHistory) fromRecord(rec storage.HistoryRecord) Task {
	return Task{
		ID:                  rec.ID,
		Title:               rec.Title,
		Description:         rec.Description,
		Type:                TaskType(rec.Type),
		Status:              TaskStatus(rec.Status),
		Priority:            Priority(rec.Priority),
		CreatedAt:           time.Unix(0, rec.CreatedAt).In(h.loc),
		CompletedAt:         h.timeFromNanos(rec.CompletedAt),
		DueAt:               h.timeFromNanos(rec.DueAt),
		ReminderAt:          h.timeFromNanos(rec.ReminderAt),
		HasReminder:         rec.HasReminder,
		RecurringPeriodDays: rec.PeriodDays,
		CoinReward:          rec.CoinReward,
		CoinPenalty:         rec.CoinPenalty,
		StreakCount:         rec.StreakCount,
		IsOverdue:           rec.IsOverdue,
	}
}

func (h *sqlHistory) fromRecords(recs []storage.HistoryRecord) []Task {
	out := make([]Task, 0, len(recs))
	for _, rec := range recs {
		out = append(out, h.fromRecord(rec))
	}
	return out
}

func nullNanos(v *time.Time) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v.UnixNano(), Valid: true}
}

func (h *sqlHistory) timeFromNanos(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64).In(h.loc)
	return &t
}
