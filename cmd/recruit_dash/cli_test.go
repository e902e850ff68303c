package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const candidatesCSV = `id,name,position,status,client,applied_date
1,Jane Doe,Engineer,Open,Acme,2024-06-20
2,John Roe,Designer,Hired,Globex,2024-01-10
`

// runCLI runs the binary against dataDir with a csv store.
func runCLI(t *testing.T, dataDir string, stdin string, args ...string) (string, error) {
	t.Helper()
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, append([]string{"--data-dir", dataDir, "--store-format", "csv"}, args...)...)
	cmd.Env = append(os.Environ(), "DATABASE_URL=", "SYNC_SCHEDULE=")
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportAndMetrics(t *testing.T) {
	dataDir := t.TempDir()
	upload := writeFile(t, t.TempDir(), "candidates.csv", candidatesCSV)

	output, err := runCLI(t, dataDir, "", "import", "--table", "candidates", "--file", upload)
	require.NoError(t, err, output)
	assert.Contains(t, output, "IMPORT COMPLETE")
	assert.Contains(t, output, "Rows:  2")

	output, err = runCLI(t, dataDir, "", "metrics", "--json")
	require.NoError(t, err, output)

	var kpis struct {
		TotalCandidates int     `json:"total_candidates"`
		OpenPositions   int     `json:"open_positions"`
		SuccessRate     float64 `json:"success_rate"`
	}
	require.NoError(t, json.Unmarshal([]byte(output[strings.Index(output, "{"):]), &kpis))
	assert.Equal(t, 2, kpis.TotalCandidates)
	assert.Equal(t, 1, kpis.OpenPositions)
	assert.InDelta(t, 50.0, kpis.SuccessRate, 0.001)
}

func TestImport_RejectsMalformedFile(t *testing.T) {
	dataDir := t.TempDir()
	upload := writeFile(t, t.TempDir(), "candidates.csv", "name\nJane\n")

	output, err := runCLI(t, dataDir, "", "import", "--table", "candidates", "--file", upload)
	assert.Error(t, err)
	assert.Contains(t, output, "missing columns")
}

func TestImport_UnknownTable(t *testing.T) {
	dataDir := t.TempDir()
	upload := writeFile(t, t.TempDir(), "offers.csv", candidatesCSV)

	output, err := runCLI(t, dataDir, "", "import", "--table", "offers", "--file", upload)
	assert.Error(t, err)
	assert.Contains(t, output, "offers")
}

func TestExport(t *testing.T) {
	dataDir := t.TempDir()
	upload := writeFile(t, t.TempDir(), "candidates.csv", candidatesCSV)
	_, err := runCLI(t, dataDir, "", "import", "--table", "candidates", "--file", upload)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "export.json")
	output, err := runCLI(t, dataDir, "", "export", "--table", "candidates", "--out", out)
	require.NoError(t, err, output)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"Jane Doe"`)
}

func TestCheck_FailsOnDuplicateIDs(t *testing.T) {
	dataDir := t.TempDir()
	upload := writeFile(t, t.TempDir(), "candidates.csv", candidatesCSV+"2,Dup Row,Engineer,Open,Acme,2024-06-01\n")
	_, err := runCLI(t, dataDir, "", "import", "--table", "candidates", "--file", upload)
	require.NoError(t, err)

	output, err := runCLI(t, dataDir, "", "check")
	assert.Error(t, err)
	assert.Contains(t, output, "duplicate_id")
	if exitError, ok := err.(*exec.ExitError); ok {
		assert.Equal(t, 1, exitError.ExitCode())
	}
}

func TestCheck_CleanData(t *testing.T) {
	dataDir := t.TempDir()

	output, err := runCLI(t, dataDir, "", "check")
	require.NoError(t, err, output)
	assert.Contains(t, output, "NO INTEGRITY ISSUES FOUND")
}

func TestCharts_UnknownChart(t *testing.T) {
	output, err := runCLI(t, t.TempDir(), "", "charts", "pie")
	assert.Error(t, err)
	assert.Contains(t, output, "unknown chart")
}

func TestHashPassword(t *testing.T) {
	output, err := runCLI(t, t.TempDir(), "correct-horse-battery\n", "hash-password")
	require.NoError(t, err, output)
	assert.Contains(t, output, "$2a$")

	output, err = runCLI(t, t.TempDir(), "short\n", "hash-password")
	assert.Error(t, err)
	assert.Contains(t, output, "at least 8 characters")
}
