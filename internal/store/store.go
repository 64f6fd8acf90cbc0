package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists run and attempt history to sqlite. A nil *Store is a valid
// no-op receiver so callers can run without persistence.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// RunRecord is one row of run history.
type RunRecord struct {
	ID         string
	InputPath  string
	Extension  string
	Stage      string
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
	DurationMS int64
}

// AttemptRecord is one generation attempt within a run.
type AttemptRecord struct {
	RunID  string
	Number int
	OK     bool
	Error  string
}

func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	s := &Store{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init run history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input_path TEXT NOT NULL,
			extension TEXT NOT NULL,
			stage TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			duration_ms INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			number INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_run_id ON attempts(run_id)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("schema query: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun records a new run in RUNNING state.
func (s *Store) StartRun(id, inputPath, ext, stage string) error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, input_path, extension, stage, status, started_at) VALUES (?, ?, ?, ?, 'RUNNING', ?)`,
		id, inputPath, ext, stage, time.Now().UTC(),
	)
	return err
}

// UpdateStage advances the recorded stage for a running run.
func (s *Store) UpdateStage(id, stage string) error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(`UPDATE runs SET stage = ? WHERE id = ?`, stage, id)
	return err
}

// FinishRun records the terminal outcome of a run.
func (s *Store) FinishRun(id, status, stage, errMsg string, duration time.Duration) error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(
		`UPDATE runs SET status = ?, stage = ?, error = ?, finished_at = ?, duration_ms = ? WHERE id = ?`,
		status, stage, errMsg, time.Now().UTC(), duration.Milliseconds(), id,
	)
	return err
}

// RecordAttempt appends one generation attempt for a run.
func (s *Store) RecordAttempt(runID string, number int, ok bool, errMsg string) error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO attempts (run_id, number, ok, error, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, number, boolToInt(ok), errMsg, time.Now().UTC(),
	)
	return err
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT id, input_path, extension, stage, status, error, started_at, finished_at, duration_ms
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.InputPath, &r.Extension, &r.Stage, &r.Status, &r.Error, &r.StartedAt, &finished, &r.DurationMS); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AttemptsForRun returns the attempts of one run in order.
func (s *Store) AttemptsForRun(runID string) ([]AttemptRecord, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT run_id, number, ok, error FROM attempts WHERE run_id = ? ORDER BY number`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var a AttemptRecord
		var ok int
		if err := rows.Scan(&a.RunID, &a.Number, &ok, &a.Error); err != nil {
			return nil, err
		}
		a.OK = ok != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
