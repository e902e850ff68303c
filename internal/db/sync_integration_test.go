//go:build integration
// +build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jonathan/recruit-tracker/internal/store"
	"github.com/jonathan/recruit-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSyncSnapshot_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	applied := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := &store.Snapshot{
		Candidates: []types.Candidate{
			{ID: 1, Name: "Ada", Position: "Engineer", Status: types.CandidateOpen, Client: "Acme", AppliedDate: &applied},
			{ID: 1, Name: "Grace", Position: "Analyst", Status: types.CandidateHired},
		},
		Interviews: []types.Interview{
			{ID: 1, CandidateID: types.IntPtr(1), Interviewer: "Alan", Status: types.InterviewScheduled},
		},
		LoadedAt: time.Now().UTC(),
	}

	result, err := db.SyncSnapshot(ctx, snap, "test")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Candidates)
	assert.Equal(t, 1, result.Interviews)
	assert.Equal(t, 0, result.Clients)
	assert.Equal(t, 2, countRows(t, db, TableCandidates))
	assert.Equal(t, 1, countRows(t, db, TableInterviews))

	// A second sync replaces the mirrored rows instead of appending.
	snap.Candidates = snap.Candidates[:1]
	second, err := db.SyncSnapshot(ctx, snap, "test")
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, db, TableCandidates))

	latest, err := db.LatestSyncRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.RunID, latest.ID)
	assert.Equal(t, 1, latest.Candidates)
}
