package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/recruit-tracker/internal/store"
	"github.com/jonathan/recruit-tracker/internal/types"
)

// SyncResult summarises one mirror sync.
type SyncResult struct {
	RunID      uuid.UUID     `json:"run_id"`
	Candidates int           `json:"candidates"`
	Interviews int           `json:"interviews"`
	Clients    int           `json:"clients"`
	SnapshotAt time.Time     `json:"snapshot_at"`
	Duration   time.Duration `json:"duration"`
}

// SyncRun is a recorded sync.
type SyncRun struct {
	ID         uuid.UUID `json:"id"`
	Source     string    `json:"source"`
	SnapshotAt time.Time `json:"snapshot_at"`
	Candidates int       `json:"candidates"`
	Interviews int       `json:"interviews"`
	Clients    int       `json:"clients"`
	CreatedAt  time.Time `json:"created_at"`
}

var (
	candidateColumns = []string{"row_no", "id", "name", "position", "status", "client", "applied_date", "sync_run_id"}
	interviewColumns = []string{"row_no", "id", "candidate_id", "interviewer", "date", "status", "feedback", "sync_run_id"}
	clientColumns    = []string{"row_no", "id", "name", "industry", "active_positions", "total_hires", "sync_run_id"}
)

// SyncSnapshot replaces the mirrored tables with snap in one transaction and
// records the run. source names where the snapshot came from, usually the
// data directory.
func (db *DB) SyncSnapshot(ctx context.Context, snap *store.Snapshot, source string) (*SyncResult, error) {
	started := time.Now()
	runID := uuid.New()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`TRUNCATE recruit_candidates, recruit_interviews, recruit_clients`); err != nil {
		return nil, fmt.Errorf("failed to clear mirror tables: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO recruit_sync_runs (id, source, snapshot_at, candidates, interviews, clients)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, source, snap.LoadedAt, len(snap.Candidates), len(snap.Interviews), len(snap.Clients),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{TableCandidates, candidateColumns, candidateRows(snap.Candidates, runID)},
		{TableInterviews, interviewColumns, interviewRows(snap.Interviews, runID)},
		{TableClients, clientColumns, clientRows(snap.Clients, runID)},
	}
	for _, c := range copies {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows))
		if err != nil {
			return nil, fmt.Errorf("failed to copy %s: %w", c.table, err)
		}
		if int(n) != len(c.rows) {
			return nil, fmt.Errorf("copied %d of %d rows into %s", n, len(c.rows), c.table)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sync: %w", err)
	}

	result := &SyncResult{
		RunID:      runID,
		Candidates: len(snap.Candidates),
		Interviews: len(snap.Interviews),
		Clients:    len(snap.Clients),
		SnapshotAt: snap.LoadedAt,
		Duration:   time.Since(started),
	}
	db.logger.Info("snapshot synced",
		"run_id", runID, "source", source,
		"candidates", result.Candidates, "interviews", result.Interviews, "clients", result.Clients,
		"duration", result.Duration)
	return result, nil
}

// LatestSyncRun returns the most recent sync run, or nil when none exists.
func (db *DB) LatestSyncRun(ctx context.Context) (*SyncRun, error) {
	var run SyncRun
	err := db.pool.QueryRow(ctx,
		`SELECT id, source, snapshot_at, candidates, interviews, clients, created_at
		 FROM recruit_sync_runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&run.ID, &run.Source, &run.SnapshotAt, &run.Candidates, &run.Interviews, &run.Clients, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest sync run: %w", err)
	}
	return &run, nil
}

func candidateRows(rows []types.Candidate, runID uuid.UUID) [][]any {
	out := make([][]any, len(rows))
	for i, c := range rows {
		out[i] = []any{i + 1, c.ID, c.Name, c.Position, string(c.Status), nullIfEmpty(c.Client), c.AppliedDate, runID}
	}
	return out
}

func interviewRows(rows []types.Interview, runID uuid.UUID) [][]any {
	out := make([][]any, len(rows))
	for i, iv := range rows {
		out[i] = []any{i + 1, iv.ID, iv.CandidateID, iv.Interviewer, iv.Date, string(iv.Status), nullIfEmpty(iv.Feedback), runID}
	}
	return out
}

func clientRows(rows []types.Client, runID uuid.UUID) [][]any {
	out := make([][]any, len(rows))
	for i, c := range rows {
		out[i] = []any{i + 1, c.ID, c.Name, nullIfEmpty(c.Industry), c.ActivePositions, c.TotalHires, runID}
	}
	return out
}
