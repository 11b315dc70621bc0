package output

import (
	"fmt"

	"github.com/rpgo/goal-planner/internal/domain"
)

// DefaultAssumptions lists modeling assumptions shared by every plan.
var DefaultAssumptions = []string{
	"Years are measured as 365.25 days from today to the target date",
	"Contributions are made at the end of each period (ordinary annuity)",
	"Growth rates are nominal annual percentages divided evenly across periods",
	"Percent-based members share what is left after fixed contributions",
}

// GenerateAssumptions creates the assumptions list for one plan from its actual inputs
func GenerateAssumptions(plan *domain.GoalPlan) []string {
	lines := plan.Assumptions.Describe(plan.Goal.Currency)
	lines = append(lines, fmt.Sprintf("Horizon: %d years %d months (%.2f periods)",
		plan.Horizon.Years, plan.Horizon.Months, plan.Horizon.TotalPeriods))
	return lines
}
