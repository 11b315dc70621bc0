package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/config"
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/rpgo/goal-planner/internal/output"
)

func newAllocateCmd(a *app) *cobra.Command {
	var goal string
	cmd := &cobra.Command{
		Use:   "allocate FILE",
		Short: "Show how each goal's required contribution splits across its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadGoals(args[0], goal)
			if err != nil {
				return err
			}
			plans, err := a.engine().BuildPlans(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			for i := range plans {
				writeAllocation(cmd.OutOrStdout(), &plans[i])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Only allocate the goal with this name or id")
	return cmd
}

func writeAllocation(w io.Writer, p *domain.GoalPlan) {
	cur := p.Goal.Currency
	t := output.Table{
		Title:   fmt.Sprintf("%s: %s per period", p.Goal.Name, output.FormatFigure(p.Totals.PerPeriod, cur)),
		Headers: []string{"Member", "Role", "Share", "Per Period"},
	}
	for _, m := range p.Members {
		per := domain.NotAvailable
		if m.PerPeriod != nil {
			per = output.FormatCurrency(*m.PerPeriod, cur)
		}
		t.Rows = append(t.Rows, []string{m.DisplayName(), string(m.Role), output.ShareLabel(m, cur), per})
	}
	al := p.Allocation
	t.Rows = append(t.Rows,
		[]string{"---"},
		[]string{"Fixed total", "", "", output.FormatCurrency(al.FixedTotal, cur)},
		[]string{"Percent total", "", output.FormatPercentage(al.PercentSum), ""},
		[]string{"Remaining", "", "", output.FormatCurrency(al.Remaining, cur)},
	)
	if al.Overflow {
		t.Rows = append(t.Rows, []string{"Shortfall", "", "", output.FormatCurrency(al.Shortfall, cur)})
	}
	if al.ZeroPercentSum {
		t.Rows = append(t.Rows, []string{"Unallocated", "", "", output.FormatCurrency(al.Unallocated, cur)})
	}
	fmt.Fprint(w, output.RenderTable(t))
	for _, warning := range p.Warnings {
		fmt.Fprintf(w, "  ! %s\n", warning)
	}
	fmt.Fprintln(w)
}

func newRebalanceCmd(a *app) *cobra.Command {
	var (
		goal  string
		write bool
	)
	cmd := &cobra.Command{
		Use:   "rebalance FILE",
		Short: "Scale collaborator percentages so each goal's percent shares total 100%",
		Long: "Scale collaborator percentages so each goal's percent shares total 100%.\n" +
			"The owner absorbs any remaining percentage. Without --write nothing is saved.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg, err := a.loadGoals(path, "")
			if err != nil {
				return err
			}

			targets := make([]*domain.Goal, 0, len(cfg.Goals))
			if goal != "" {
				g, ok := cfg.FindGoal(goal)
				if !ok {
					return fmt.Errorf("goal %q not found in %s", goal, path)
				}
				targets = append(targets, g)
			} else {
				for i := range cfg.Goals {
					targets = append(targets, &cfg.Goals[i])
				}
			}

			out := cmd.OutOrStdout()
			for _, g := range targets {
				after, err := rebalanced(g.Members)
				if err != nil {
					return fmt.Errorf("goal %q: %w", g.Name, err)
				}
				writeRebalance(out, g.Name, g.Members, after)
				g.Members = after
			}

			if !write {
				fmt.Fprintln(out, "Dry run: pass --write to save the rebalanced goals.")
				return nil
			}
			if err := output.SaveConfiguration(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Only rebalance the goal with this name or id")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the rebalanced goals back to FILE")
	return cmd
}

// rebalanced returns the rebalanced member list after checking it still validates.
func rebalanced(members []domain.Member) ([]domain.Member, error) {
	after := calculation.RebalancePercentages(members)
	if err := config.ValidateMembers(after); err != nil {
		return nil, err
	}
	return after, nil
}

func writeRebalance(w io.Writer, name string, before, after []domain.Member) {
	sum, _ := calculation.PercentSum(after)
	t := output.Table{
		Title:   fmt.Sprintf("%s: percent shares now total %s", name, output.FormatPercentage(sum)),
		Headers: []string{"Member", "Role", "Before", "After"},
	}
	for i := range after {
		t.Rows = append(t.Rows, []string{after[i].UserID, string(after[i].Role), before[i].Share.String(), after[i].Share.String()})
	}
	fmt.Fprint(w, output.RenderTable(t))
	fmt.Fprintln(w)
}
