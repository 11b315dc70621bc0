package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/config"
	"github.com/rpgo/goal-planner/internal/output"
)

func newExampleCmd(_ *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "example FILE",
		Short: "Write an example goal file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if err := output.SaveConfiguration(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example goals written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
