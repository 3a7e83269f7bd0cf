package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/matverify/internal/candidate"
	"github.com/roach88/matverify/internal/harness"
	"github.com/roach88/matverify/internal/store"
	"github.com/roach88/matverify/internal/suites"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Candidate   string
	Seed        uint32
	Trials      int
	Suite       string // glob over suite or suite/case
	Fixtures    string
	Database    string
	MetricsFile string

	// RunID overrides the generated run identifier (for testing).
	RunID string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every verification suite against a candidate",
		Long: `Run the algebraic, combinatorial, structural and fuzz suites against a
candidate multiplier and print a per-case summary.

The fuzz suite draws from a generator seeded once per run. The seed is
printed with the report; pass it to "matverify replay" to reproduce a trial.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed, or the run was interrupted
  2 - Command error (unknown candidate, bad fixtures, database error, etc.)

Examples:
  matverify run
  matverify run --candidate reference
  matverify run --seed 3922693891 --suite fuzz
  matverify run --fixtures ./cases.yaml --db ./findings.db
  matverify run --metrics-file ./matverify.prom --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(opts, cmd)
		},
	}

	addCandidateFlag(cmd, &opts.Candidate)
	cmd.Flags().Uint32Var(&opts.Seed, "seed", 0, "fuzz seed (default: drawn from the system entropy source)")
	cmd.Flags().IntVar(&opts.Trials, "trials", suites.DefaultTrials, "number of fuzz trials")
	cmd.Flags().StringVar(&opts.Suite, "suite", "", "run only suites or suite/case IDs matching this glob")
	cmd.Flags().StringVar(&opts.Fixtures, "fixtures", "", "YAML file of extra fixture cases")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite findings ledger")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics for the run to this file")

	return cmd
}

func addCandidateFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVar(dst, "candidate", candidate.NameFaulty,
		fmt.Sprintf("multiplier under test %v", candidate.Names()))
}

func runSuites(opts *RunOptions, cmd *cobra.Command) error {
	logger := opts.logger(cmd)

	cfg := suites.Config{
		Trials:   opts.Trials,
		Fixtures: opts.Fixtures,
	}
	if cmd.Flags().Changed("seed") {
		seed := opts.Seed
		cfg.Seed = &seed
	}

	return execute(cmd, logger, execution{
		root:        opts.RootOptions,
		candidate:   opts.Candidate,
		config:      cfg,
		filter:      opts.Suite,
		database:    opts.Database,
		metricsFile: opts.MetricsFile,
		runID:       opts.RunID,
	})
}

// execution is everything a run or replay needs once flags are parsed.
type execution struct {
	root        *RootOptions
	candidate   string
	config      suites.Config
	filter      string
	database    string
	metricsFile string
	runID       string
}

// execute resolves the candidate and suites, runs them, records and renders
// the report. A failing case or an interrupted run yields an ExitFailure
// error after the report has been written.
func execute(cmd *cobra.Command, logger *slog.Logger, ex execution) error {
	mul, err := candidate.Lookup(ex.candidate, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve candidate", err)
	}
	ex.config.Candidate = mul

	cfg, err := ex.config.Resolve()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid run configuration", err)
	}
	all, err := suites.All(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load suites", err)
	}

	runnerOpts := []harness.Option{harness.WithLogger(logger)}
	if ex.filter != "" {
		runnerOpts = append(runnerOpts, harness.WithFilter(ex.filter))
	}
	if ex.runID != "" {
		runnerOpts = append(runnerOpts, harness.WithRunID(ex.runID))
	}
	var registry *prometheus.Registry
	if ex.metricsFile != "" {
		registry = prometheus.NewRegistry()
		runnerOpts = append(runnerOpts, harness.WithMetrics(harness.NewMetrics(registry)))
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("fuzz seed", "seed", *cfg.Seed, "trials", cfg.Trials, "candidate", ex.candidate)
	report, runErr := harness.NewRunner(runnerOpts...).Run(ctx, all...)
	if runErr != nil {
		if report == nil {
			return WrapExitError(ExitCommandError, "run failed", runErr)
		}
		logger.Warn("run interrupted, reporting completed cases", "error", runErr)
	}
	report.Candidate = ex.candidate
	report.Seed = cfg.Seed

	if ex.database != "" {
		if err := record(ctx, ex.database, report, logger); err != nil {
			return err
		}
	}
	if registry != nil {
		if err := prometheus.WriteToTextfile(ex.metricsFile, registry); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
		logger.Debug("metrics written", "path", ex.metricsFile)
	}

	out := ex.root.formatter(cmd)
	if err := out.Render(report, func(w io.Writer) error {
		return harness.WriteText(w, report)
	}); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}

	if report.Interrupted {
		return WrapExitError(ExitFailure,
			fmt.Sprintf("run interrupted after %d cases (seed %d)", report.Total, *cfg.Seed), runErr)
	}
	if !report.Pass() {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%d of %d cases failed (seed %d)", report.Failed, report.Total, *cfg.Seed))
	}
	return nil
}

func record(ctx context.Context, path string, report *harness.Report, logger *slog.Logger) error {
	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	// Recording outlives an interrupted run.
	if err := st.WriteReport(context.WithoutCancel(ctx), report); err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	logger.Info("run recorded", "db", path, "run_id", report.RunID)
	return nil
}
