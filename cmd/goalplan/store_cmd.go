package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/rpgo/goal-planner/internal/output"
	"github.com/rpgo/goal-planner/internal/store"
)

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage goals kept in the local goal database",
	}
	cmd.AddCommand(
		newStoreImportCmd(a),
		newStoreListCmd(a),
		newStoreShowCmd(a),
		newStoreRebalanceCmd(a),
		newStoreDeleteCmd(a),
	)
	return cmd
}

// withStore opens the goal database for the duration of fn.
func (a *app) withStore(fn func(*store.Store) error) error {
	s, err := store.Open(a.storePath)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	a.logger.Debugf("using goal store %s", a.storePath)
	return fn(s)
}

func newStoreImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Validate a goal file and save its goals to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadGoals(args[0], "")
			if err != nil {
				return err
			}
			return a.withStore(func(s *store.Store) error {
				n, err := s.ImportConfiguration(cmd.Context(), cfg)
				if err != nil {
					return fmt.Errorf("importing %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d goal(s) into %s\n", n, a.storePath)
				return nil
			})
		},
	}
}

func newStoreListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(s *store.Store) error {
				goals, err := s.ListGoals(cmd.Context())
				if err != nil {
					return err
				}
				if len(goals) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No goals stored.")
					return nil
				}
				t := output.Table{Headers: []string{"ID", "Name", "Target", "By", "Members"}}
				for _, g := range goals {
					t.Rows = append(t.Rows, []string{
						g.ID,
						g.Name,
						output.FormatCurrency(g.TargetAmount, g.Currency),
						g.TargetDate.Format("2006-01-02"),
						fmt.Sprint(len(g.Members)),
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), output.RenderTable(t))
				return nil
			})
		},
	}
}

func newStoreShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show GOAL",
		Short: "Build and render the plan for a stored goal (by id or name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store) error {
				g, err := s.GetGoal(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				dir, err := s.MemberDirectory(cmd.Context())
				if err != nil {
					return err
				}
				cfg := &domain.Configuration{Goals: []domain.Goal{*g}, MemberDirectory: dir}
				report, err := a.engine().RunReport(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), report)
			})
		},
	}
}

func newStoreRebalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rebalance GOAL",
		Short: "Rebalance a stored goal's percentages and save the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store) error {
				var before []domain.Member
				g, err := s.UpdateMembers(cmd.Context(), args[0], func(ms []domain.Member) ([]domain.Member, error) {
					before = ms
					return rebalanced(ms)
				})
				if err != nil {
					return err
				}
				writeRebalance(cmd.OutOrStdout(), g.Name, before, g.Members)
				return nil
			})
		},
	}
}

func newStoreDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete GOAL",
		Short: "Delete a stored goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store) error {
				if err := s.DeleteGoal(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
