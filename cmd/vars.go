package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/rl-driver/common"
	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/logs"
)

var (
	flags  *common.Flags = common.DefaultFlags()
	logger logs.Logger

	envID      string
	renderMode string
	stepDelay  string
	seed       uint64
	maxSteps   int
	savePath   string
	logLevel   string
	debug      bool

	numRuns              int
	episodes             int
	maxConsecutiveErrors int
	parallelism          int
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&envID, "env", flags.EnvID, "Environment identifier")
	cmd.PersistentFlags().StringVar(&renderMode, "render-mode", string(flags.RenderMode), "Render mode: human, ansi or none")
	cmd.PersistentFlags().StringVar(&stepDelay, "step-delay", flags.StepDelay.String(), "Delay between steps, 0 to disable")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", flags.Seed, "Seed for action sampling, 0 for a random seed")
	cmd.PersistentFlags().IntVar(&maxSteps, "max-steps", flags.MaxSteps, "Stop an episode after this many steps, 0 for no limit")
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&debug, "debug", flags.Debug, "Save traces of the last episodes")

	cmd.PersistentFlags().IntVar(&numRuns, "num-runs", flags.NumRuns, "Number of runs")
	cmd.PersistentFlags().IntVar(&episodes, "episodes", flags.Episodes, "Number of episodes")
	cmd.PersistentFlags().IntVar(&maxConsecutiveErrors, "max-consecutive-errors", flags.MaxConsecutiveErrors, "Maximum number of consecutive errors")
	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", flags.Parallelism, "Number of parallel runs")
}

func UpdateFlags() error {
	delay, err := parseDelay(stepDelay)
	if err != nil {
		return err
	}
	flags.EnvID = envID
	flags.RenderMode = core.RenderMode(renderMode)
	flags.StepDelay = delay
	flags.Seed = seed
	flags.MaxSteps = maxSteps
	flags.SavePath = savePath
	flags.LogLevel = logLevel
	flags.Debug = debug

	flags.NumRuns = numRuns
	flags.Episodes = episodes
	flags.MaxConsecutiveErrors = maxConsecutiveErrors
	flags.Parallelism = parallelism
	return nil
}
