package db

import (
	"context"
	"fmt"
)

// Mirror table names.
const (
	TableCandidates = "recruit_candidates"
	TableInterviews = "recruit_interviews"
	TableClients    = "recruit_clients"
	TableSyncRuns   = "recruit_sync_runs"
)

// Mirrored rows are keyed by their position in the source file because the
// source tables may contain duplicate or missing ids.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS recruit_sync_runs (
		id UUID PRIMARY KEY,
		source TEXT NOT NULL,
		snapshot_at TIMESTAMPTZ NOT NULL,
		candidates INTEGER NOT NULL,
		interviews INTEGER NOT NULL,
		clients INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS recruit_candidates (
		row_no INTEGER PRIMARY KEY,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		status TEXT NOT NULL,
		client TEXT,
		applied_date TIMESTAMPTZ,
		sync_run_id UUID NOT NULL REFERENCES recruit_sync_runs(id)
	)`,
	`CREATE TABLE IF NOT EXISTS recruit_interviews (
		row_no INTEGER PRIMARY KEY,
		id INTEGER NOT NULL,
		candidate_id INTEGER,
		interviewer TEXT NOT NULL,
		date TIMESTAMPTZ,
		status TEXT NOT NULL,
		feedback TEXT,
		sync_run_id UUID NOT NULL REFERENCES recruit_sync_runs(id)
	)`,
	`CREATE TABLE IF NOT EXISTS recruit_clients (
		row_no INTEGER PRIMARY KEY,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		industry TEXT,
		active_positions INTEGER,
		total_hires INTEGER,
		sync_run_id UUID NOT NULL REFERENCES recruit_sync_runs(id)
	)`,
	`CREATE INDEX IF NOT EXISTS recruit_candidates_id_idx ON recruit_candidates (id)`,
	`CREATE INDEX IF NOT EXISTS recruit_interviews_candidate_idx ON recruit_interviews (candidate_id)`,
	`CREATE INDEX IF NOT EXISTS recruit_sync_runs_created_idx ON recruit_sync_runs (created_at DESC)`,
}

// EnsureSchema creates the mirror tables when they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
