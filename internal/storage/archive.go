// Package storage keeps a local audit trail of backup runs in SQLite. The
// archive is advisory: engine operations succeed or fail on their own and
// recording problems are logged, never surfaced to the user.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded engine operation.
type Run struct {
	ID         int64
	Kind       string // export, import or clear
	Status     string // completed or failed
	Expenses   int
	Budgets    int
	Savings    int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

type Archive struct {
	db *sql.DB
}

func NewArchive(dbPath string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *Archive) RecordRun(ctx context.Context, run Run) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO backup_runs (kind, status, expenses, budgets, savings, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Kind, run.Status, run.Expenses, run.Budgets, run.Savings, run.Error,
		run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, kind, status, expenses, budgets, savings, error, started_at, finished_at
		 FROM backup_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Status, &r.Expenses, &r.Budgets, &r.Savings,
			&r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
