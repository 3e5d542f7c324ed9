package storage

import "database/sql"

// HistoryRecord is one archived task that reached a terminal outcome.
// Instants are stored as Unix nanoseconds.
type HistoryRecord struct {
	Seq         int64         `db:"seq"`
	ID          string        `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	Type        string        `db:"type"`
	Status      string        `db:"status"`
	Priority    string        `db:"priority"`
	CreatedAt   int64         `db:"created_at"`
	CompletedAt sql.NullInt64 `db:"completed_at"`
	DueAt       sql.NullInt64 `db:"due_at"`
	ReminderAt  sql.NullInt64 `db:"reminder_at"`
	HasReminder bool          `db:"has_reminder"`
	PeriodDays  int           `db:"period_days"`
	CoinReward  int           `db:"coin_reward"`
	CoinPenalty int           `db:"coin_penalty"`
	StreakCount int           `db:"streak_count"`
	IsOverdue   bool          `db:"is_overdue"`
}
