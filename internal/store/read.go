package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/matverify/internal/faults"
	"github.com/roach88/matverify/internal/harness"
)

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID        string  `json:"id" yaml:"id"`
	Seq       int64   `json:"seq" yaml:"seq"`
	Candidate string  `json:"candidate" yaml:"candidate"`
	Seed      *uint32 `json:"seed,omitempty" yaml:"seed,omitempty"`
	Passed    int     `json:"passed" yaml:"passed"`
	Failed    int     `json:"failed" yaml:"failed"`
	Total     int     `json:"total" yaml:"total"`
	Checks    int     `json:"checks" yaml:"checks"`

	Interrupted bool `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
}

// Correlation aggregates one fault code's trigger statistics across runs.
type Correlation struct {
	Code        faults.Code `json:"code" yaml:"code"`
	Description string      `json:"description" yaml:"description"`
	Runs        int         `json:"runs" yaml:"runs"`
	Present     int         `json:"present" yaml:"present"`
	Failed      int         `json:"failed" yaml:"failed"`
	Rate        float64     `json:"rate" yaml:"rate"`
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, candidate, seed, passed, failed, total, checks, interrupted
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		var seed sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Seq, &r.Candidate, &seed, &r.Passed, &r.Failed, &r.Total, &r.Checks, &r.Interrupted); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if seed.Valid {
			v := uint32(seed.Int64)
			r.Seed = &v
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// TriggerCorrelation sums trigger statistics over every recorded run, or
// over the runs of one candidate when candidate is non-empty. Codes are
// returned in ascending order.
func (s *Store) TriggerCorrelation(ctx context.Context, candidate string) ([]Correlation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.code, COUNT(DISTINCT t.run_id), SUM(t.present), SUM(t.failed)
		FROM trigger_stats t
		JOIN runs r ON r.id = t.run_id
		WHERE ? = '' OR r.candidate = ?
		GROUP BY t.code
		ORDER BY t.code ASC
	`, candidate, candidate)
	if err != nil {
		return nil, fmt.Errorf("query trigger stats: %w", err)
	}
	defer rows.Close()

	out := []Correlation{}
	for rows.Next() {
		var c Correlation
		var code int
		if err := rows.Scan(&code, &c.Runs, &c.Present, &c.Failed); err != nil {
			return nil, fmt.Errorf("scan trigger stats: %w", err)
		}
		c.Code = faults.Code(code)
		c.Description = faults.Describe(c.Code)
		if c.Present > 0 {
			c.Rate = float64(c.Failed) / float64(c.Present)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trigger stats: %w", err)
	}
	return out, nil
}

// RunFailures returns the failures of one run in insertion order.
func (s *Store) RunFailures(ctx context.Context, runID string) ([]harness.Failure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT detail FROM failures
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	out := []harness.Failure{}
	for rows.Next() {
		var detail string
		if err := rows.Scan(&detail); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		var f harness.Failure
		if err := json.Unmarshal([]byte(detail), &f); err != nil {
			return nil, fmt.Errorf("unmarshal failure: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failures: %w", err)
	}
	return out, nil
}

// RunFindings returns the findings of one run in insertion order.
func (s *Store) RunFindings(ctx context.Context, runID string) ([]harness.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, step, detail, observed FROM findings
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	out := []harness.Finding{}
	for rows.Next() {
		var f harness.Finding
		var observed sql.NullString
		if err := rows.Scan(&f.Kind, &f.Step, &f.Detail, &observed); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		if f.Observed, err = unmarshalObserved(observed); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate findings: %w", err)
	}
	return out, nil
}
