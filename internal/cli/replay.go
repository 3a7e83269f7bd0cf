package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/matverify/internal/suites"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Candidate string
	Seed      uint32
	Trials    int
	Trial     int // -1 replays every trial

	// RunID overrides the generated run identifier (for testing).
	RunID string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rerun the fuzz suite from a logged seed",
		Long: `Rerun the differential fuzz suite deterministically from a seed printed
by an earlier run.

With --trial only that trial is compared. Earlier trials are still drawn so
the generator reaches the same state it had in the original run.

Exit codes:
  0 - Replayed trials passed
  1 - A replayed trial failed
  2 - Command error (missing seed, trial out of range, etc.)

Examples:
  matverify replay --seed 3922693891
  matverify replay --seed 3922693891 --trial 41
  matverify replay --seed 3922693891 --trial 41 --candidate gonum --format yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	addCandidateFlag(cmd, &opts.Candidate)
	cmd.Flags().Uint32Var(&opts.Seed, "seed", 0, "seed printed by the original run (required)")
	_ = cmd.MarkFlagRequired("seed")
	cmd.Flags().IntVar(&opts.Trials, "trials", suites.DefaultTrials, "number of fuzz trials in the original run")
	cmd.Flags().IntVar(&opts.Trial, "trial", -1, "replay only this trial index")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	logger := opts.logger(cmd)

	seed := opts.Seed
	cfg := suites.Config{
		Seed:   &seed,
		Trials: opts.Trials,
	}
	if cmd.Flags().Changed("trial") {
		trial := opts.Trial
		cfg.Trial = &trial
	}

	return execute(cmd, logger, execution{
		root:      opts.RootOptions,
		candidate: opts.Candidate,
		config:    cfg,
		filter:    suites.NameFuzz,
		runID:     opts.RunID,
	})
}
