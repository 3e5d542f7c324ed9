package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS task_history (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			priority TEXT NOT NULL,

			created_at INTEGER NOT NULL,
			completed_at INTEGER,
			due_at INTEGER,
			reminder_at INTEGER,
			has_reminder INTEGER NOT NULL DEFAULT 0,

			period_days INTEGER NOT NULL,
			coin_reward INTEGER NOT NULL,
			coin_penalty INTEGER NOT NULL,
			streak_count INTEGER NOT NULL DEFAULT 0,
			is_overdue INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_task_history_created_at ON task_history(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_task_history_due_at ON task_history(due_at);`,
		`CREATE INDEX IF NOT EXISTS idx_task_history_completed_at ON task_history(status, completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_task_history_title ON task_history(type, title);`,
	}

	return WithTx(ctx, db, func(tx *sqlx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
