package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/calculation"
)

func newSimulateCmd(a *app) *cobra.Command {
	var (
		goal       string
		runs       int
		volatility float64
		seed       int64
		mode       string
	)
	cmd := &cobra.Command{
		Use:   "simulate FILE",
		Short: "Replay each goal's plan under random returns and report how often it reaches the target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("runs") {
				runs = a.settings.Simulate.Runs
			}
			if !cmd.Flags().Changed("volatility") {
				volatility = a.settings.Simulate.Volatility
			}
			if mode == "" {
				mode = a.settings.Scenario.Mode
			}
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			cfg, err := a.loadGoals(args[0], goal)
			if err != nil {
				return err
			}

			pe := a.engine()
			report, err := pe.RunReport(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			mc := calculation.MonteCarloConfig{NumSimulations: runs, VolatilityPercent: volatility, Seed: seed, Mode: m}
			for i := range report.Plans {
				sum, err := pe.SimulateGoal(cmd.Context(), &report.Plans[i], mc)
				if err != nil {
					return fmt.Errorf("simulating %s: %w", report.Plans[i].Goal.Name, err)
				}
				report.Simulations = append(report.Simulations, *sum)
			}
			return a.emit(cmd.OutOrStdout(), report)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&goal, "goal", "g", "", "Only simulate the goal with this name or id")
	f.IntVarP(&runs, "runs", "n", 0, "Number of simulated runs per goal")
	f.Float64Var(&volatility, "volatility", 0, "Annual standard deviation of returns in percent")
	f.Int64Var(&seed, "seed", 0, "Random seed for reproducible runs (0 picks one)")
	f.StringVarP(&mode, "mode", "m", "", "Funding mode: combined, periodic or lump-sum")
	return cmd
}
