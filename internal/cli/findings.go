package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/matverify/internal/store"
)

// FindingsOptions holds flags for the findings command.
type FindingsOptions struct {
	*RootOptions
	Database  string
	Candidate string // optional - restrict correlation to one candidate
	Limit     int
}

// FindingsResult is the payload of the findings command.
type FindingsResult struct {
	Runs        []store.RunSummary  `json:"runs" yaml:"runs"`
	Correlation []store.Correlation `json:"correlation" yaml:"correlation"`
}

// NewFindingsCommand creates the findings command.
func NewFindingsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FindingsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "findings",
		Short: "Correlate fault triggers across recorded runs",
		Long: `Read a findings ledger written by "matverify run --db" and report, per
fault code, how many checks carried the trigger and how many of those failed.

A code whose failure rate stands out across many runs is a likely trigger of
the candidate's misbehaviour.

Exit codes:
  0 - Report printed
  2 - Command error (database not found, etc.)

Examples:
  matverify findings --db ./findings.db
  matverify findings --db ./findings.db --candidate faulty --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFindings(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite findings ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Candidate, "candidate", "", "only correlate runs of this candidate")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "number of recent runs to list (0 for all)")

	return cmd
}

func runFindings(opts *FindingsOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Opening a missing path would create an empty ledger.
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	corr, err := st.TriggerCorrelation(ctx, opts.Candidate)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to correlate triggers", err)
	}

	result := FindingsResult{Runs: runs, Correlation: corr}
	return opts.formatter(cmd).Render(result, func(w io.Writer) error {
		return writeFindingsText(w, result)
	})
}

func writeFindingsText(w io.Writer, r FindingsResult) error {
	if len(r.Runs) == 0 {
		_, err := io.WriteString(w, "No runs recorded.\n")
		return err
	}

	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("Recorded runs (newest first):\n")
	for _, run := range r.Runs {
		seed := "-"
		if run.Seed != nil {
			seed = fmt.Sprintf("%d", *run.Seed)
		}
		b.WriteString(p.Sprintf("  #%d %s candidate=%s seed=%s %d/%d passed (%d checks)\n",
			run.Seq, run.ID, run.Candidate, seed, run.Passed, run.Total, run.Checks))
	}

	b.WriteString("\nTrigger correlation:\n")
	if len(r.Correlation) == 0 {
		b.WriteString("  (no trigger statistics)\n")
	}
	for _, c := range r.Correlation {
		b.WriteString(p.Sprintf("  %s %d/%d failed (%.1f%%) over %d runs  %s\n",
			c.Code, c.Failed, c.Present, c.Rate*100, c.Runs, c.Description))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
