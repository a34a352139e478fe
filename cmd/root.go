package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/zeu5/rl-driver/common"
	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/envs"
	"github.com/zeu5/rl-driver/logs"
)

func RootCommand() *cobra.Command {
	envs.Register()
	flags = common.DefaultFlags()
	flags.LoadEnv()

	cmd := &cobra.Command{
		Use:          "rl-driver",
		Short:        "Drive simulation environments with random actions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := UpdateFlags(); err != nil {
				return err
			}
			if err := logs.SetLevel(flags.LogLevel); err != nil {
				return err
			}
			flags.RunID = uuid.NewString()
			logger = logs.New(cmd.ErrOrStderr(), nil).With("run_id", flags.RunID)
			return nil
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		PlayCommand(),
		RunCommand(),
		EnvsCommand(),
	)

	return cmd
}

// interruptContext is cancelled on the first interrupt or when stop is called.
func interruptContext() (ctx context.Context, stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, func() { close(doneCh) }
}

// parseDelay accepts a Go duration or a plain number of milliseconds.
func parseDelay(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("step delay must not be negative: %s", s)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("step delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("step delay must not be negative: %s", s)
	}
	return d, nil
}

// effectiveRenderMode falls back to no rendering when human output would not
// reach a terminal.
func effectiveRenderMode(mode core.RenderMode, out *os.File) core.RenderMode {
	if mode != core.RenderHuman || out == nil {
		return mode
	}
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		return mode
	}
	logger.Warn("stdout is not a terminal, rendering disabled")
	return core.RenderNone
}
