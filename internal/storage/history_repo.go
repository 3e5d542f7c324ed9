package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const historyColumns = `seq, id, title, description, type, status, priority,
	created_at, completed_at, due_at, reminder_at, has_reminder,
	period_days, coin_reward, coin_penalty, streak_count, is_overdue`

// HistoryRepo is the append-only archive of completed and failed tasks.
type HistoryRepo struct {
	db *sqlx.DB
}

func NewHistoryRepo(db *sqlx.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Insert(ctx context.Context, rec HistoryRecord) (int64, error) {
	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO task_history (
			id, title, description, type, status, priority,
			created_at, completed_at, due_at, reminder_at, has_reminder,
			period_days, coin_reward, coin_penalty, streak_count, is_overdue
		) VALUES (
			:id, :title, :description, :type, :status, :priority,
			:created_at, :completed_at, :due_at, :reminder_at, :has_reminder,
			:period_days, :coin_reward, :coin_penalty, :streak_count, :is_overdue
		)
	`, rec)
	if err != nil {
		return 0, fmt.Errorf("history insert: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history last insert id: %w", err)
	}
	return seq, nil
}

// Get returns the archived record for id, or nil when the task was never archived.
func (r *HistoryRepo) Get(ctx context.Context, id string) (*HistoryRecord, error) {
	var rec HistoryRecord
	err := r.db.GetContext(ctx, &rec, `SELECT `+historyColumns+` FROM task_history WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("history get: %w", err)
	}
	return &rec, nil
}

// ListTouching returns records created or due within [start, end).
func (r *HistoryRepo) ListTouching(ctx context.Context, start int64, end int64) ([]HistoryRecord, error) {
	var out []HistoryRecord
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+historyColumns+`
		FROM task_history
		WHERE (created_at >= ? AND created_at < ?)
			OR (due_at IS NOT NULL AND due_at >= ? AND due_at < ?)
		ORDER BY seq ASC
	`, start, end, start, end)
	if err != nil {
		return nil, fmt.Errorf("history list touching: %w", err)
	}
	return out, nil
}

// ListCompletedBetween returns COMPLETED records whose completion falls within [start, end).
func (r *HistoryRepo) ListCompletedBetween(ctx context.Context, start int64, end int64) ([]HistoryRecord, error) {
	var out []HistoryRecord
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+historyColumns+`
		FROM task_history
		WHERE status = 'COMPLETED' AND completed_at >= ? AND completed_at < ?
		ORDER BY completed_at ASC, seq ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("history list completed: %w", err)
	}
	return out, nil
}

// ListCompletedByTitle returns COMPLETED records of the given type and exact title.
func (r *HistoryRepo) ListCompletedByTitle(ctx context.Context, taskType string, title string) ([]HistoryRecord, error) {
	var out []HistoryRecord
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+historyColumns+`
		FROM task_history
		WHERE status = 'COMPLETED' AND type = ? AND title = ?
		ORDER BY seq ASC
	`, taskType, title)
	if err != nil {
		return nil, fmt.Errorf("history list by title: %w", err)
	}
	return out, nil
}

func (r *HistoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM task_history`); err != nil {
		return 0, fmt.Errorf("history count: %w", err)
	}
	return n, nil
}
