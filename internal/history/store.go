// Package history persists deploy run records so past deploys can be
// inspected after the fact. Recording is best-effort: a failed write must
// never fail a deploy.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run is a single deploy pipeline execution.
type Run struct {
	ID       string
	Started  time.Time
	Finished time.Time
	Outcome  string // success|failed|canceled, empty while running
	Entries  int    // top-level entries relocated
	Error    string // first fatal error message, if any
}

// Event is a single recorded occurrence within a run.
type Event struct {
	ID        int64
	RunID     string
	Type      string
	Timestamp time.Time
	Detail    string
}

// Store records deploy runs in SQLite.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (creating if necessary) the run store at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("create history directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started INTEGER NOT NULL,
		finished INTEGER,
		outcome TEXT,
		entries INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);
	CREATE TABLE IF NOT EXISTS run_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		detail TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_run_events_run_id ON run_events(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordStart inserts a new run row.
func (s *Store) RecordStart(ctx context.Context, runID string, started time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (run_id, started) VALUES (?, ?)",
		runID, started.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordFinish completes a run row with its final outcome.
func (s *Store) RecordFinish(ctx context.Context, runID string, finished time.Time, outcome string, entries int, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"UPDATE runs SET finished = ?, outcome = ?, entries = ?, error = ? WHERE run_id = ?",
		finished.Unix(), outcome, entries, errMsg, runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// AppendEvent adds a new event to a run.
func (s *Store) AppendEvent(ctx context.Context, runID, eventType, detail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO run_events (run_id, event_type, timestamp, detail) VALUES (?, ?, ?, ?)",
		runID, eventType, time.Now().Unix(), detail,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, started, finished, outcome, entries, error FROM runs ORDER BY started DESC, run_id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		var finished sql.NullInt64
		var outcome, errMsg sql.NullString

		if err := rows.Scan(&r.ID, &started, &finished, &outcome, &r.Entries, &errMsg); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Started = time.Unix(started, 0)
		if finished.Valid {
			r.Finished = time.Unix(finished.Int64, 0)
		}
		r.Outcome = outcome.String
		r.Error = errMsg.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Events returns all events for a specific run in insertion order.
func (s *Store) Events(ctx context.Context, runID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, run_id, event_type, timestamp, detail FROM run_events WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts int64
		var detail sql.NullString

		if err := rows.Scan(&e.ID, &e.RunID, &e.Type, &ts, &detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Timestamp = time.Unix(ts, 0)
		e.Detail = detail.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return events, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
