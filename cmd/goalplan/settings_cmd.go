package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/config"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			s := a.settings
			fmt.Fprintf(out, "  Settings file: %s\n\n", a.settingsFile())
			fmt.Fprintln(out, "  [Output]")
			fmt.Fprintf(out, "    Format:    %s\n", s.Output.Format)
			if s.Output.Directory != "" {
				fmt.Fprintf(out, "    Directory: %s\n", s.Output.Directory)
			}
			fmt.Fprintf(out, "    No color:  %v\n\n", s.Output.NoColor)
			fmt.Fprintln(out, "  [Store]")
			fmt.Fprintf(out, "    Path: %s\n\n", a.storePath)
			fmt.Fprintln(out, "  [Scenario]")
			fmt.Fprintf(out, "    Rates:   %v\n", s.Scenario.Rates)
			fmt.Fprintf(out, "    Offsets: %v\n", s.Scenario.Offsets)
			fmt.Fprintf(out, "    Mode:    %s\n\n", s.Scenario.Mode)
			fmt.Fprintln(out, "  [Simulate]")
			fmt.Fprintf(out, "    Runs:       %d\n", s.Simulate.Runs)
			fmt.Fprintf(out, "    Volatility: %.2f%%\n", s.Simulate.Volatility)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.settingsFile()
			if err := config.SaveSettingsTo(path, config.DefaultSettings()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", path)
			return nil
		},
	})
	return cmd
}

func (a *app) settingsFile() string {
	if a.settingsPath != "" {
		return a.settingsPath
	}
	return config.SettingsPath()
}
