package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id             TEXT PRIMARY KEY,
		algorithm      TEXT NOT NULL,
		quantum        INTEGER NOT NULL,
		process_count  INTEGER NOT NULL,
		definitions    TEXT NOT NULL,
		timeline       TEXT NOT NULL,
		processes      TEXT NOT NULL,
		summary        TEXT NOT NULL,
		avg_waiting    REAL NOT NULL DEFAULT 0,
		avg_turnaround REAL NOT NULL DEFAULT 0,
		makespan       INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_algorithm ON runs(algorithm)`,
}

// migrate runs all schema statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
