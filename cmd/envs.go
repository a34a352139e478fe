package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zeu5/rl-driver/core"
)

func EnvsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "envs",
		Short: "List registered environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range core.Registered() {
				c, err := core.Lookup(id)
				if err != nil {
					return err
				}
				modes := make([]string, 0)
				for _, m := range c.RenderModes() {
					modes = append(modes, string(m))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, strings.Join(modes, ","))
			}
			return nil
		},
	}

	return cmd
}
