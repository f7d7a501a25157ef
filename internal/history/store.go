package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists build run history backed by SQLite. The controller is the
// only writer; readers are the history CLI commands.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// BeginRun records the start of a build run and returns its id.
func (s *Store) BeginRun(ctx context.Context, info RunInfo) (string, error) {
	id := uuid.NewString()
	dryRun := 0
	if info.DryRun {
		dryRun = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, status, tool_version, release_version, dict_type, dry_run, workers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), StatusRunning,
		info.ToolVersion, info.ReleaseVersion, info.DictType, dryRun, info.Workers,
	)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// RecordOutcome stores one job's classification under a run.
func (s *Store) RecordOutcome(ctx context.Context, runID string, outcome Outcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO job_outcomes (run_id, dict_type, source, target, class, exit_code, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, outcome.DictType, outcome.Source, outcome.Target,
		outcome.Class, outcome.ExitCode, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// FinishRun closes out a run with its final status and totals. runErr may be
// nil for a clean run.
func (s *Store) FinishRun(ctx context.Context, runID, status string, dictCount int, totalBytes int64, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, status = ?, dict_count = ?, total_bytes = ?, error = ?
		WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), status, dictCount, totalBytes, msg, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status, tool_version, release_version,
		       dict_type, dry_run, workers, dict_count, total_bytes, error
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent runs: %w", err)
	}
	return runs, nil
}

// OutcomeCounts returns a run's per-class job counts.
func (s *Store) OutcomeCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT class, COUNT(1) FROM job_outcomes WHERE run_id = ? GROUP BY class`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcome counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var class string
		var count int
		if err := rows.Scan(&class, &count); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[class] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome counts: %w", err)
	}
	return counts, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run        Run
		startedAt  string
		finishedAt sql.NullString
		dryRun     int
	)
	err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Status,
		&run.ToolVersion, &run.ReleaseVersion, &run.DictType,
		&dryRun, &run.Workers, &run.DictCount, &run.TotalBytes, &run.Error)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.DryRun = dryRun != 0
	if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return Run{}, fmt.Errorf("parse run start time: %w", err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return Run{}, fmt.Errorf("parse run finish time: %w", err)
		}
		run.FinishedAt = &t
	}
	return run, nil
}
