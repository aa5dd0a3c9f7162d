// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog persists a journal of submitted task runs in SQLite. The
// journal makes --no-wait useful: a submitted run can be listed and polled
// later from another invocation. It is append-and-update bookkeeping only;
// request building never reads it.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/parallel-research/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "runs.db"
)

// Entry is one journaled task run.
type Entry struct {
	RunID       string    `json:"run_id"`
	Mode        string    `json:"mode"`
	Input       string    `json:"input"`
	Processor   string    `json:"processor"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store manages the run journal database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the journal at dir/index/runs.db, creating the
// schema if it does not exist.
func NewStore(cfg types.RunLogConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		input TEXT NOT NULL,
		processor TEXT NOT NULL,
		status TEXT NOT NULL,
		submitted_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record journals a newly submitted run.
func (s *Store) Record(ctx context.Context, e Entry) error {
	now := time.Now().UTC()
	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = now
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, mode, input, processor, status, submitted_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Mode, e.Input, e.Processor, e.Status,
		e.SubmittedAt.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording run %s: %w", e.RunID, err)
	}
	return nil
}

// UpdateStatus records the latest observed status for a run.
func (s *Store) UpdateStatus(ctx context.Context, runID, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE run_id = ?`,
		status, time.Now().UTC().Format(time.RFC3339Nano), runID)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found in journal", runID)
	}
	return nil
}

// Get returns the journal entry for a run.
func (s *Store) Get(ctx context.Context, runID string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, mode, input, processor, status, submitted_at, updated_at
		 FROM runs WHERE run_id = ?`, runID)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, fmt.Errorf("run %s not found in journal", runID)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("reading run %s: %w", runID, err)
	}
	return e, nil
}

// List returns journal entries, most recently submitted first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, mode, input, processor, status, submitted_at, updated_at
		 FROM runs ORDER BY submitted_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var submitted, updated string
	if err := row.Scan(&e.RunID, &e.Mode, &e.Input, &e.Processor, &e.Status, &submitted, &updated); err != nil {
		return Entry{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, submitted); err == nil {
		e.SubmittedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		e.UpdatedAt = t
	}
	return e, nil
}
