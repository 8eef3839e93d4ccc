// Package store is the local SQLite cache behind the HUD. It mirrors the
// last known task collection and user snapshot so the views render before
// the collaborator answers, and it keeps the verification attempt log that
// feeds the offline analytics fallback. The cache is never authoritative:
// every collaborator response overwrites it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/kryta/internal/lifecycle"
	_ "modernc.org/sqlite"
)

// Attempt is one recorded verification attempt.
type Attempt struct {
	TaskID    string
	Outcome   string // completed | partial | retry | locked
	Reason    string
	Timestamp time.Time
}

// UserSnapshot is the cached HUD header state.
type UserSnapshot struct {
	Name   string
	XP     int
	Streak int
}

// Store defines the cache interface.
type Store interface {
	// Task snapshot
	SaveTasks(ctx context.Context, tasks []*lifecycle.Task) error
	ListTasks(ctx context.Context) ([]*lifecycle.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status lifecycle.Status, failureReason string) error

	// User snapshot
	SaveUser(ctx context.Context, user UserSnapshot) error
	GetUser(ctx context.Context) (UserSnapshot, error)

	// Verification attempt log
	RecordAttempt(ctx context.Context, attempt Attempt) error
	ListAttempts(ctx context.Context, taskID string) ([]Attempt, error)
	AttemptCounts(ctx context.Context) (completed, failed int, err error)

	// Lifecycle
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed cache at the given path, creating
// parent directories if needed. Enables WAL mode, foreign keys, and a busy
// timeout.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}

	// Note: modernc.org/sqlite doesn't support _foreign_keys in the
	// connection string; the pragma is applied after open.
	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return initStore(ctx, db)
}

// NewMemoryStore creates an in-memory cache for testing. Each call gets its
// own named database with a shared cache, so a store's two connections see
// the same data without leaking state between tests.
func NewMemoryStore(ctx context.Context) (*SQLiteStore, error) {
	connStr := fmt.Sprintf("file:mem-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory database: %w", err)
	}

	return initStore(ctx, db)
}

func initStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Two connections: one writer, one reader.
	db.SetMaxOpenConns(2)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
