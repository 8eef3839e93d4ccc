package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aristath/kryta/internal/lifecycle"
	"github.com/aristath/kryta/internal/timemap"
)

// SaveTasks upserts a batch of tasks inside one transaction. Saves are
// idempotent; the collaborator's view of a task always wins over the cache.
func (s *SQLiteStore) SaveTasks(ctx context.Context, tasks []*lifecycle.Task) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, task := range tasks {
		targetDate := ""
		if !task.TargetDate.IsZero() {
			targetDate = timemap.FormatDate(task.TargetDate)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (id, title, scheduled_time, estimated_minutes, target_date, status, priority, is_urgent, proof_instruction, last_failure_reason, group_id, step_order, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				scheduled_time = excluded.scheduled_time,
				estimated_minutes = excluded.estimated_minutes,
				target_date = excluded.target_date,
				status = excluded.status,
				priority = excluded.priority,
				is_urgent = excluded.is_urgent,
				proof_instruction = excluded.proof_instruction,
				last_failure_reason = excluded.last_failure_reason,
				group_id = excluded.group_id,
				step_order = excluded.step_order,
				updated_at = CURRENT_TIMESTAMP
		`, task.ID, task.Title, task.ScheduledTime, task.EstimatedMinutes, targetDate,
			string(task.Status), string(task.Priority), boolToInt(task.IsUrgent),
			task.ProofInstruction, task.LastFailureReason, task.GroupID, task.StepOrder)
		if err != nil {
			return fmt.Errorf("failed to upsert task %s: %w", task.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListTasks returns every cached task ordered by insertion.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]*lifecycle.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, scheduled_time, estimated_minutes, target_date, status, priority, is_urgent, proof_instruction, last_failure_reason, group_id, step_order
		FROM tasks
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*lifecycle.Task
	for rows.Next() {
		task := &lifecycle.Task{}
		var targetDate string
		var isUrgent int
		var status, priority string

		err := rows.Scan(&task.ID, &task.Title, &task.ScheduledTime, &task.EstimatedMinutes,
			&targetDate, &status, &priority, &isUrgent,
			&task.ProofInstruction, &task.LastFailureReason, &task.GroupID, &task.StepOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		task.Status = lifecycle.Status(status)
		task.Priority = lifecycle.Priority(priority)
		task.IsUrgent = isUrgent != 0
		if d, ok := timemap.ParseDate(targetDate); ok {
			task.TargetDate = d
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus records a verification outcome against the cached task.
func (s *SQLiteStore) UpdateTaskStatus(ctx context.Context, taskID string, status lifecycle.Status, failureReason string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = ?, last_failure_reason = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, string(status), failureReason, taskID)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task not found: %s", taskID)
	}
	return nil
}

// SaveUser stores the HUD header snapshot. A single row holds the state.
func (s *SQLiteStore) SaveUser(ctx context.Context, user UserSnapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_snapshot (id, name, xp, streak, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			xp = excluded.xp,
			streak = excluded.streak,
			updated_at = CURRENT_TIMESTAMP
	`, user.Name, user.XP, user.Streak)
	if err != nil {
		return fmt.Errorf("failed to save user snapshot: %w", err)
	}
	return nil
}

// GetUser returns the cached HUD header snapshot, or a zero snapshot when
// none has been stored yet.
func (s *SQLiteStore) GetUser(ctx context.Context) (UserSnapshot, error) {
	var user UserSnapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT name, xp, streak FROM user_snapshot WHERE id = 1
	`).Scan(&user.Name, &user.XP, &user.Streak)

	if err == sql.ErrNoRows {
		return UserSnapshot{}, nil
	}
	if err != nil {
		return UserSnapshot{}, fmt.Errorf("failed to query user snapshot: %w", err)
	}
	return user, nil
}

// RecordAttempt appends one verification attempt to the log.
func (s *SQLiteStore) RecordAttempt(ctx context.Context, attempt Attempt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verification_attempts (task_id, outcome, reason)
		VALUES (?, ?, ?)
	`, attempt.TaskID, attempt.Outcome, attempt.Reason)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// ListAttempts returns a task's attempts in chronological order.
func (s *SQLiteStore) ListAttempts(ctx context.Context, taskID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, outcome, reason, timestamp
		FROM verification_attempts
		WHERE task_id = ?
		ORDER BY timestamp, id
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.TaskID, &a.Outcome, &a.Reason, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}
	return attempts, nil
}

// AttemptCounts returns the totals behind the offline analytics fallback:
// completed attempts and failed (retry or locked) attempts.
func (s *SQLiteStore) AttemptCounts(ctx context.Context) (int, int, error) {
	var completed, failed int
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN outcome = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome IN ('retry', 'locked') THEN 1 ELSE 0 END), 0)
		FROM verification_attempts
	`).Scan(&completed, &failed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return completed, failed, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
