package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/policies"
)

func PlayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one episode with random actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := interruptContext()
			defer stop()

			mode := flags.RenderMode
			if out, ok := cmd.OutOrStdout().(*os.File); ok {
				mode = effectiveRenderMode(mode, out)
			}
			d := &core.Driver{
				Policy:    policies.NewRandomPolicy(),
				StepDelay: flags.StepDelay,
				MaxSteps:  flags.MaxSteps,
				Seed:      flags.Seed,
				Logger:    logger,
			}
			if mode == core.RenderANSI {
				d.Frames = cmd.OutOrStdout()
			}

			result, err := d.Play(ctx, flags.EnvID, mode)
			if err != nil {
				return err
			}
			fmt.Fprintf(
				cmd.OutOrStdout(),
				"Episode over after %d steps, return: %g, terminated: %t, truncated: %t\n",
				result.Steps, result.Return, result.Terminated, result.Truncated,
			)
			return nil
		},
	}

	return cmd
}
