package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matverify/internal/faults"
	"github.com/roach88/matverify/internal/harness"
	"github.com/roach88/matverify/internal/matrix"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(runID, candidate string, seed uint32) *harness.Report {
	trial := 3
	r := harness.NewReport(runID)
	r.Candidate = candidate
	r.Seed = &seed
	r.Add(harness.CaseResult{
		Suite: "algebraic", Name: "EvenEven", Pass: true, Checks: 1,
		Triggers: []harness.TriggerStat{{Code: 12, Present: 1}},
	})
	r.Add(harness.CaseResult{
		Suite: "fuzz", Name: "RandomMatrices", Pass: false, Checks: 100,
		Failures: []harness.Failure{{
			Message:  "random product mismatch",
			Dims:     &matrix.Dims{RowsA: 1, ColsA: 1, ColsB: 1},
			A:        matrix.Matrix{{7}},
			B:        matrix.Matrix{{2}},
			Expected: matrix.Matrix{{14}},
			Actual:   matrix.Matrix{{16}},
			Seed:     &seed,
			Trial:    &trial,
			Triggers: []faults.Code{2, 7, 12},
		}},
		Triggers: []harness.TriggerStat{
			{Code: 2, Present: 10, Failed: 4},
			{Code: 12, Present: 50, Failed: 1},
		},
	})
	r.Add(harness.CaseResult{
		Suite: "structural", Name: "NegativeSizes", Pass: true,
		Findings: []harness.Finding{{
			Kind:     harness.FindingNonConformance,
			Step:     "-rowsA",
			Detail:   "no failure signal",
			Observed: matrix.Matrix{{0, 0}, {0, 0}},
		}},
	})
	return r
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "2"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteReport(ctx, sampleReport("run-1", "faulty", 1)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	require.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}

func TestWriteReport_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	r := sampleReport("run-1", "faulty", 3922693891)

	require.NoError(t, s.WriteReport(ctx, r))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	got := runs[0]
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, int64(1), got.Seq)
	assert.Equal(t, "faulty", got.Candidate)
	require.NotNil(t, got.Seed)
	assert.Equal(t, uint32(3922693891), *got.Seed)
	assert.Equal(t, 2, got.Passed)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 101, got.Checks)

	failures, err := s.RunFailures(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, r.Cases[1].Failures[0], failures[0])

	findings, err := s.RunFindings(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "-rowsA", findings[0].Step)
	assert.Equal(t, matrix.Matrix{{0, 0}, {0, 0}}, findings[0].Observed)
}

func TestWriteReport_DuplicateRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteReport(ctx, sampleReport("run-1", "faulty", 1)))
	err := s.WriteReport(ctx, sampleReport("run-1", "faulty", 1))
	require.ErrorIs(t, err, ErrDuplicateRun)

	failures, err := s.RunFailures(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, failures, 1, "rejected run must not add rows")
}

func TestWriteReport_NoSeed(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	r := harness.NewReport("plain")
	r.Candidate = "reference"
	require.NoError(t, s.WriteReport(ctx, r))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].Seed)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.WriteReport(ctx, sampleReport(id, "faulty", 1)))
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, int64(3), runs[0].Seq)
	assert.Equal(t, "b", runs[1].ID)

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTriggerCorrelation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteReport(ctx, sampleReport("f1", "faulty", 1)))
	require.NoError(t, s.WriteReport(ctx, sampleReport("f2", "faulty", 2)))
	require.NoError(t, s.WriteReport(ctx, sampleReport("r1", "reference", 3)))

	all, err := s.TriggerCorrelation(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, faults.Code(2), all[0].Code)
	assert.Equal(t, faults.Describe(2), all[0].Description)
	assert.Equal(t, 3, all[0].Runs)
	assert.Equal(t, 30, all[0].Present)
	assert.Equal(t, 12, all[0].Failed)
	assert.InDelta(t, 0.4, all[0].Rate, 1e-9)

	assert.Equal(t, faults.Code(12), all[1].Code)
	assert.Equal(t, 3*51, all[1].Present)

	faultyOnly, err := s.TriggerCorrelation(ctx, "faulty")
	require.NoError(t, err)
	require.Len(t, faultyOnly, 2)
	assert.Equal(t, 2, faultyOnly[0].Runs)
	assert.Equal(t, 20, faultyOnly[0].Present)
}

func TestTriggerCorrelation_Empty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.TriggerCorrelation(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestWriteReport_Interrupted(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	r := sampleReport("cut-short", "faulty", 9)
	r.Interrupted = true
	require.NoError(t, s.WriteReport(ctx, r))
	require.NoError(t, s.WriteReport(ctx, sampleReport("complete", "faulty", 9)))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.False(t, runs[0].Interrupted)
	assert.True(t, runs[1].Interrupted)
}

func TestOpen_MigratesV1Ledger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v1.db")

	// A ledger as written before runs.interrupted existed.
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE runs (
			id        TEXT PRIMARY KEY,
			seq       INTEGER NOT NULL UNIQUE,
			candidate TEXT NOT NULL,
			seed      INTEGER,
			passed    INTEGER NOT NULL,
			failed    INTEGER NOT NULL,
			total     INTEGER NOT NULL,
			checks    INTEGER NOT NULL
		);
		INSERT INTO runs VALUES ('old', 1, 'faulty', 5, 10, 5, 15, 40000);
		PRAGMA user_version = 1;
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.NoError(t, s.verifyPragma("user_version", "2"))

	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "old", runs[0].ID)
	assert.False(t, runs[0].Interrupted)
}
