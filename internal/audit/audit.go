// Package audit records match runs in PostgreSQL.
//
// The trail stores run metadata only - who was matched, under which label,
// how many files and rows came out, and any reported failure. Match results
// themselves are never persisted. The whole package is optional: a nil
// *Recorder is a safe no-op, so the service runs fully in memory when no
// database is configured.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the database interface used by the recorder.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Action identifies which operator action produced a run entry.
type Action string

const (
	ActionManualMatch   Action = "manual_match"
	ActionPriorityMatch Action = "priority_match"
	ActionPreview       Action = "preview"
)

// Run is one recorded match run.
type Run struct {
	ID        uuid.UUID `json:"id"`
	Action    Action    `json:"action"`
	Client    string    `json:"client,omitempty"` // empty for batch actions
	Files     int       `json:"files"`
	Rows      int       `json:"rows"`
	Skipped   int       `json:"skipped"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recorder writes and reads the run-history table.
type Recorder struct {
	db DBTX
}

// New creates a Recorder backed by the given database.
func New(db DBTX) *Recorder {
	return &Recorder{db: db}
}

// EnsureSchema creates the run-history table when it does not exist yet.
func (r *Recorder) EnsureSchema(ctx context.Context) error {
	if r == nil {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS match_runs (
			id         UUID PRIMARY KEY,
			action     TEXT NOT NULL,
			client     TEXT NOT NULL DEFAULT '',
			files      INT NOT NULL DEFAULT 0,
			rows_out   INT NOT NULL DEFAULT 0,
			skipped    INT NOT NULL DEFAULT 0,
			error      TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure match_runs schema: %w", err)
	}
	return nil
}

// Record inserts a run entry. Called on a nil Recorder it does nothing, so
// callers never have to guard for the no-database case.
func (r *Recorder) Record(ctx context.Context, run Run) error {
	if r == nil {
		return nil
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO match_runs (id, action, client, files, rows_out, skipped, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, string(run.Action), run.Client, run.Files, run.Rows, run.Skipped, run.Error, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record match run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Run, error) {
	if r == nil {
		return nil, nil
	}
	if limit < 1 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, action, client, files, rows_out, skipped, error, created_at
		FROM match_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query match runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var action string
		if err := rows.Scan(&run.ID, &action, &run.Client, &run.Files, &run.Rows, &run.Skipped, &run.Error, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match run: %w", err)
		}
		run.Action = Action(action)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
