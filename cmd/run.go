package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/zeu5/rl-driver/analysis"
	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/logs"
	"github.com/zeu5/rl-driver/policies"
)

func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play many episodes without rendering and save return statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.Record(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			logFile, err := logs.OpenFile(flags.RunPath(), "run.log")
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer logFile.Close()
			logger = logs.New(cmd.ErrOrStderr(), logFile).With("run_id", flags.RunID)

			ctx, stop := interruptContext()
			defer stop()

			cmp := PrepareRandomComparison()
			rConfig := flags.RunConfig()
			rConfig.Progress = cmd.OutOrStdout()
			rConfig.Logger = logger

			results := cmp.Run(ctx, flags.NumRuns, rConfig, flags.Parallelism)
			logger.Info("results saved", "path", flags.RunPath())

			names := make([]string, 0, len(results))
			for name := range results {
				names = append(names, name)
			}
			sort.Strings(names)
			var errs []error
			for _, name := range names {
				if r := results[name]; r.IsError() {
					errs = append(errs, fmt.Errorf("%s: %w", name, r.Error))
				}
			}
			return errors.Join(errs...)
		},
	}

	return cmd
}

// PrepareRandomComparison plays the configured environment with the random
// policy and tracks episode returns.
func PrepareRandomComparison() *core.Comparison {
	cmp := core.NewComparison()
	savePath := flags.RunPath()

	if flags.Debug {
		cmp.AddAnalysis("Debug", analysis.NewPrintDebugAnalyzerConstructor(savePath, flags.Episodes-10), nil)
	}
	cmp.AddAnalysis("Errors", analysis.NewErrorAnalyzerConstructor(savePath), nil)
	cmp.AddAnalysis("Returns", analysis.NewReturnAnalyzerConstructor(), analysis.NewReturnComparatorConstructor(savePath))

	cmp.AddExperiment(&core.Experiment{
		Name:       "Random",
		EnvID:      flags.EnvID,
		RenderMode: core.RenderNone,
		Policy:     &policies.RandomPolicyConstructor{},
	})
	return cmp
}
