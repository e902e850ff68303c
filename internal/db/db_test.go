package db

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/recruit-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateRows(t *testing.T) {
	runID := uuid.New()
	applied := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := candidateRows([]types.Candidate{
		{ID: 7, Name: "Ada", Position: "Engineer", Status: types.CandidateOpen, Client: "Acme", AppliedDate: &applied},
		{ID: 7, Name: "Grace", Position: "Analyst", Status: "Legacy"},
	}, runID)

	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Len(t, r, len(candidateColumns))
	}
	assert.Equal(t, 1, rows[0][0], "row_no follows file order")
	assert.Equal(t, 2, rows[1][0])
	assert.Equal(t, 7, rows[1][1], "duplicate ids are mirrored as-is")
	assert.Equal(t, "Acme", *rows[0][5].(*string))
	assert.Nil(t, rows[1][5].(*string))
	assert.Equal(t, &applied, rows[0][6])
	assert.Nil(t, rows[1][6].(*time.Time))
	assert.Equal(t, runID, rows[0][7])
}

func TestInterviewRows(t *testing.T) {
	runID := uuid.New()
	rows := interviewRows([]types.Interview{
		{ID: 1, CandidateID: types.IntPtr(3), Interviewer: "Grace", Status: types.InterviewScheduled, Feedback: "ok"},
		{ID: 2, Interviewer: "Alan", Status: types.InterviewCancelled},
	}, runID)

	require.Len(t, rows, 2)
	assert.Len(t, rows[0], len(interviewColumns))
	assert.Equal(t, 3, *rows[0][2].(*int))
	assert.Nil(t, rows[1][2].(*int))
	assert.Equal(t, "Scheduled", rows[0][5])
	assert.Equal(t, "ok", *rows[0][6].(*string))
	assert.Nil(t, rows[1][6].(*string))
}

func TestClientRows(t *testing.T) {
	runID := uuid.New()
	rows := clientRows([]types.Client{
		{ID: 1, Name: "Acme", Industry: "Retail", ActivePositions: types.IntPtr(2)},
	}, runID)

	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(clientColumns))
	assert.Equal(t, "Retail", *rows[0][3].(*string))
	assert.Equal(t, 2, *rows[0][4].(*int))
	assert.Nil(t, rows[0][5].(*int))
}

func TestCandidateRows_Empty(t *testing.T) {
	assert.Empty(t, candidateRows(nil, uuid.New()))
}

func TestSchemaStatementsCoverMirrorTables(t *testing.T) {
	for _, table := range []string{TableCandidates, TableInterviews, TableClients, TableSyncRuns} {
		found := false
		for _, stmt := range schemaStatements {
			if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				found = true
				break
			}
		}
		assert.True(t, found, "no CREATE TABLE for %s", table)
	}
}
