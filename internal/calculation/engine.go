package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rpgo/goal-planner/internal/domain"
)

// PlanningEngine builds goal plans and scenario projections.
// It holds no per-goal state, so one engine can serve concurrent callers.
type PlanningEngine struct {
	Logger Logger
	// Now overrides the package clock when set.
	Now func() time.Time
}

// NewPlanningEngine creates a new planning engine with a no-op logger
func NewPlanningEngine() *PlanningEngine {
	return &PlanningEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (pe *PlanningEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

func (pe *PlanningEngine) now() time.Time {
	if pe.Now != nil {
		return pe.Now()
	}
	return nowFunc()
}

func (pe *PlanningEngine) log() Logger {
	if pe.Logger == nil {
		return NopLogger{}
	}
	return pe.Logger
}

// BuildPlans builds a plan for every goal in the configuration, in order.
// The context is checked between goals.
func (pe *PlanningEngine) BuildPlans(ctx context.Context, config *domain.Configuration) ([]domain.GoalPlan, error) {
	plans := make([]domain.GoalPlan, 0, len(config.Goals))
	for i := range config.Goals {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("building plan %d of %d: %w", i+1, len(config.Goals), err)
		}
		plan := pe.BuildPlan(config.Goals[i], config.MemberDirectory)
		plans = append(plans, *plan)
	}
	return plans, nil
}

// RunReport builds plans for all goals and, when scenarios are given, one
// projection per goal and scenario.
func (pe *PlanningEngine) RunReport(ctx context.Context, config *domain.Configuration, scenarios ...ScenarioOptions) (*domain.PlanReport, error) {
	plans, err := pe.BuildPlans(ctx, config)
	if err != nil {
		return nil, err
	}
	report := &domain.PlanReport{Plans: plans}
	for i := range plans {
		for _, opts := range scenarios {
			report.Projections = append(report.Projections, *pe.EvaluateScenario(&plans[i], opts))
		}
	}
	return report, nil
}
