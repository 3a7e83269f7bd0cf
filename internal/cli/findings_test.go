package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matverify/internal/faults"
	"github.com/roach88/matverify/internal/harness"
	"github.com/roach88/matverify/internal/store"
)

// seedLedger records two runs with hand-built trigger statistics.
func seedLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "findings.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	seed := uint32(42)
	for i, cand := range []string{"faulty", "reference"} {
		r := harness.NewReport([]string{"run-a", "run-b"}[i])
		r.Candidate = cand
		r.Seed = &seed
		failed := 0
		if cand == "faulty" {
			failed = 3
		}
		r.Add(harness.CaseResult{
			Suite: "fuzz", Name: "RandomMatrices", Pass: failed == 0, Checks: 100,
			Triggers: []harness.TriggerStat{
				{Code: 2, Description: faults.Describe(2), Present: 10, Failed: failed},
			},
		})
		require.NoError(t, st.WriteReport(context.Background(), r))
	}
	return path
}

func TestFindings_Text(t *testing.T) {
	db := seedLedger(t)

	out, _, err := execRoot(t, "findings", "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "Recorded runs (newest first):")
	assert.Contains(t, out, "  #2 run-b candidate=reference seed=42 1/1 passed (100 checks)")
	assert.Contains(t, out, "  #1 run-a candidate=faulty seed=42 0/1 passed (100 checks)")
	assert.Contains(t, out, "  E02 3/20 failed (15.0%) over 2 runs  Matrix A contains the number 7")
	assert.Less(t, strings.Index(out, "#2 run-b"), strings.Index(out, "#1 run-a"))
}

func TestFindings_CandidateFilter(t *testing.T) {
	db := seedLedger(t)

	out, _, err := execRoot(t, "findings", "--db", db, "--candidate", "faulty", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   FindingsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Data.Runs, 2, "the run list is not filtered")
	require.Len(t, resp.Data.Correlation, 1)
	c := resp.Data.Correlation[0]
	assert.Equal(t, faults.Code(2), c.Code)
	assert.Equal(t, 1, c.Runs)
	assert.Equal(t, 10, c.Present)
	assert.Equal(t, 3, c.Failed)
	assert.InDelta(t, 0.3, c.Rate, 1e-9)
}

func TestFindings_Limit(t *testing.T) {
	db := seedLedger(t)

	out, _, err := execRoot(t, "findings", "--db", db, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 run-b")
	assert.NotContains(t, out, "#1 run-a")
}

func TestFindings_EmptyLedger(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := execRoot(t, "findings", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}

func TestFindings_MissingDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "missing.db")

	out, errOut, err := execRoot(t, "findings", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Error [E002]: database not found")

	_, statErr := os.Stat(db)
	assert.True(t, os.IsNotExist(statErr), "findings must not create a ledger")
}

func TestFindings_MissingDatabaseJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "missing", "dir", "findings.db")

	out, _, err := execRoot(t, "findings", "--db", db, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E002", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "database not found")
}

func TestFindings_BadDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "findings.db")
	require.NoError(t, os.WriteFile(db, []byte("not a sqlite database, just text padding it out"), 0o644))

	_, _, err := execRoot(t, "findings", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
