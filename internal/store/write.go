package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/matverify/internal/harness"
)

// ErrDuplicateRun is returned when a run ID has already been recorded.
var ErrDuplicateRun = errors.New("run already recorded")

// WriteReport persists one run in a single transaction.
// Either every row of the report is stored or none is.
func (s *Store) WriteReport(ctx context.Context, r *harness.Report) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write report: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err := insertRun(ctx, tx, r); err != nil {
		return fmt.Errorf("write report %s: %w", r.RunID, err)
	}

	for _, c := range r.Cases {
		for _, f := range c.Failures {
			if err := insertFailure(ctx, tx, r.RunID, c, f); err != nil {
				return fmt.Errorf("write report %s: %w", r.RunID, err)
			}
		}
		for _, f := range c.Findings {
			if err := insertFinding(ctx, tx, r.RunID, c, f); err != nil {
				return fmt.Errorf("write report %s: %w", r.RunID, err)
			}
		}
	}

	for _, st := range r.Triggers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trigger_stats (run_id, code, present, failed)
			VALUES (?, ?, ?, ?)
		`, r.RunID, int(st.Code), st.Present, st.Failed)
		if err != nil {
			return fmt.Errorf("write report %s: trigger %s: %w", r.RunID, st.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write report %s: commit: %w", r.RunID, err)
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, r *harness.Report) error {
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return fmt.Errorf("next run seq: %w", err)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, candidate, seed, passed, failed, total, checks, interrupted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, seq, r.Candidate, nullSeed(r.Seed), r.Passed, r.Failed, r.Total, r.Checks, r.Interrupted)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return ErrDuplicateRun
	}
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func insertFailure(ctx context.Context, tx *sql.Tx, runID string, c harness.CaseResult, f harness.Failure) error {
	triggers, err := marshalTriggers(f.Triggers)
	if err != nil {
		return err
	}
	detail, err := marshalJSON(f)
	if err != nil {
		return fmt.Errorf("marshal failure: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO failures (run_id, suite, case_name, step, message, seed, trial, triggers, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, c.Suite, c.Name, f.Step, f.Message, nullSeed(f.Seed), nullTrial(f.Trial), triggers, detail)
	if err != nil {
		return fmt.Errorf("insert failure %s: %w", c.ID(), err)
	}
	return nil
}

func insertFinding(ctx context.Context, tx *sql.Tx, runID string, c harness.CaseResult, f harness.Finding) error {
	observed, err := marshalObserved(f.Observed)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO findings (run_id, suite, case_name, kind, step, detail, observed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, c.Suite, c.Name, f.Kind, f.Step, f.Detail, observed)
	if err != nil {
		return fmt.Errorf("insert finding %s: %w", c.ID(), err)
	}
	return nil
}
