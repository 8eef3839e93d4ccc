package store

import (
	"context"
)

// initSchema creates all required tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		scheduled_time TEXT,
		estimated_minutes INTEGER NOT NULL,
		target_date TEXT,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		is_urgent INTEGER NOT NULL DEFAULT 0,
		proof_instruction TEXT,
		last_failure_reason TEXT,
		group_id TEXT,
		step_order INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_target_date ON tasks(target_date);
	CREATE INDEX IF NOT EXISTS idx_tasks_group ON tasks(group_id, step_order);

	CREATE TABLE IF NOT EXISTS user_snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL,
		xp INTEGER NOT NULL,
		streak INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS verification_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		reason TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_task_timestamp
		ON verification_attempts(task_id, timestamp);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}
