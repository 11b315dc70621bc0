package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/domain"
)

func newPlanCmd(a *app) *cobra.Command {
	var goal string
	cmd := &cobra.Command{
		Use:   "plan FILE",
		Short: "Build the funding plan for every goal in a goal file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadGoals(args[0], goal)
			if err != nil {
				return err
			}
			report, err := a.engine().RunReport(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Only plan the goal with this name or id")
	return cmd
}

func parseMode(s string) (domain.ProjectionMode, error) {
	m := domain.ProjectionMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown projection mode %q (want combined, periodic or lump-sum)", s)
	}
	return m, nil
}

func newScenarioCmd(a *app) *cobra.Command {
	var (
		goal   string
		rate   float64
		offset int
		mode   string
	)
	cmd := &cobra.Command{
		Use:   "scenario FILE",
		Short: "Project goals under a different growth rate or target date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			opts := calculation.ScenarioOptions{TimelineOffsetMonths: offset, Mode: m}
			if cmd.Flags().Changed("rate") {
				opts.RatePercent = &rate
			}
			report, err := a.engine().RunReport(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), report)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&goal, "goal", "g", "", "Only project the goal with this name or id")
	f.Float64VarP(&rate, "rate", "r", 0, "Annual growth rate in percent (default: the goal's expected rate)")
	f.IntVar(&offset, "offset-months", 0, "Move the target date by this many months")
	f.StringVarP(&mode, "mode", "m", "", "Projection mode: combined, periodic or lump-sum")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	var (
		goal    string
		rates   []float64
		offsets []int
		mode    string
	)
	cmd := &cobra.Command{
		Use:   "compare FILE",
		Short: "Compare each goal's plan against alternative rates and timelines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rates") {
				rates = a.settings.Scenario.Rates
			}
			if !cmd.Flags().Changed("offsets") {
				offsets = a.settings.Scenario.Offsets
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
			for i := range report.Plans {
				plan := &report.Plans[i]
				base := calculation.ScenarioOptions{Mode: m}
				alts := alternatives(plan.Goal.ExpectedRate.InexactFloat64(), rates, offsets, m)
				report.Comparisons = append(report.Comparisons, *pe.CompareScenarios(plan, base, alts...))
			}
			return a.emit(cmd.OutOrStdout(), report)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&goal, "goal", "g", "", "Only compare the goal with this name or id")
	f.Float64SliceVar(&rates, "rates", nil, "Alternative annual growth rates in percent")
	f.IntSliceVar(&offsets, "offsets", nil, "Alternative target date offsets in months")
	f.StringVarP(&mode, "mode", "m", "", "Projection mode: combined, periodic or lump-sum")
	return cmd
}

// alternatives crosses rates with offsets, leaving out the combination equal to the base.
// No offsets means offset 0 only.
func alternatives(baseRate float64, rates []float64, offsets []int, mode domain.ProjectionMode) []calculation.ScenarioOptions {
	if len(offsets) == 0 {
		offsets = []int{0}
	}
	if len(rates) == 0 {
		rates = []float64{baseRate}
	}
	var out []calculation.ScenarioOptions
	for _, r := range rates {
		for _, o := range offsets {
			if r == baseRate && o == 0 {
				continue
			}
			rate := r
			out = append(out, calculation.ScenarioOptions{RatePercent: &rate, TimelineOffsetMonths: o, Mode: mode})
		}
	}
	return out
}
