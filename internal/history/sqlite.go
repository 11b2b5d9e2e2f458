package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists run records in SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (creating if needed) the ledger at dbPath. Use ":memory:" for tests.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		module TEXT NOT NULL,
		branch TEXT,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		failed_stage TEXT,
		error TEXT,
		files_copied INTEGER NOT NULL DEFAULT 0,
		stages TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_module ON runs(module);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores rec.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stages, err := json.Marshal(rec.Stages)
	if err != nil {
		return fmt.Errorf("marshal stages: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, module, branch, started_at, ended_at, outcome, failed_stage, error, files_copied, stages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Module, rec.Branch, rec.Start.UnixMilli(), rec.End.UnixMilli(),
		rec.Outcome, rec.FailedStage, rec.Error, rec.FilesCopied, string(stages),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A non-positive limit returns all runs.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, module, branch, started_at, ended_at, outcome, failed_stage, error, files_copied, stages
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec            Record
			branch, failed sql.NullString
			errText        sql.NullString
			stages         sql.NullString
			start, end     int64
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Module, &branch, &start, &end, &rec.Outcome, &failed, &errText, &rec.FilesCopied, &stages); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Branch = branch.String
		rec.FailedStage = failed.String
		rec.Error = errText.String
		rec.Start = time.UnixMilli(start)
		rec.End = time.UnixMilli(end)
		if stages.Valid && stages.String != "" {
			if err := json.Unmarshal([]byte(stages.String), &rec.Stages); err != nil {
				return nil, fmt.Errorf("unmarshal stages: %w", err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
