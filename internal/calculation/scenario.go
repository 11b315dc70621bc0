package calculation

import (
	"math"

	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/rpgo/goal-planner/pkg/dateutil"
)

// MaxTimelineOffsetMonths caps how far a scenario may push the target date out.
const MaxTimelineOffsetMonths = 240

// ScenarioOptions are the what-if overrides for a projection
type ScenarioOptions struct {
	RatePercent          *float64 // nil keeps the goal's expected rate
	TimelineOffsetMonths int
	Mode                 domain.ProjectionMode
}

// periodTolerance keeps float noise such as 119.99999999 from adding a period.
const periodTolerance = 1e-9

// EvaluateScenario re-runs the plan math under the given overrides and
// produces a period-by-period series. The plan is not modified.
func (pe *PlanningEngine) EvaluateScenario(plan *domain.GoalPlan, opts ScenarioOptions) *domain.ScenarioProjection {
	goal := &plan.Goal

	rate := goal.ExpectedRate.InexactFloat64()
	if opts.RatePercent != nil {
		rate = *opts.RatePercent
	}
	mode := opts.Mode
	if mode == "" || !mode.Valid() {
		mode = domain.ModeCombined
	}

	offset := dateutil.ClampInt(opts.TimelineOffsetMonths, -plan.Horizon.TotalMonths(), MaxTimelineOffsetMonths)
	if offset != opts.TimelineOffsetMonths {
		pe.log().Debugf("scenario %q: offset %d clamped to %d", goal.Name, opts.TimelineOffsetMonths, offset)
	}
	years := math.Max(plan.Horizon.ExactYears+float64(offset)/12, 0)

	_, contribPerYear := frequencyOrMonthly(goal.ContributionFrequency)
	totals, _ := solveTotals(goal, rate, years)

	proj := &domain.ScenarioProjection{
		GoalName:             goal.Name,
		Currency:             goal.Currency,
		Mode:                 mode,
		RatePercent:          rate,
		TimelineOffsetMonths: offset,
		TargetAmount:         goal.TargetAmount,
		TargetDate:           dateutil.AddMonths(goal.TargetDate, offset),
		Horizon:              newHorizon(years, contribPerYear),
		Totals:               totals,
	}

	pe.log().Debugf("scenario %q: rate=%.2f offset=%d mode=%s years=%.4f", goal.Name, rate, offset, mode, years)

	if !totals.PerPeriod.Finite() || !totals.LumpSumNow.Finite() {
		nan := domain.Figure(math.NaN())
		proj.ContributionsTotal, proj.GrowthTotal = nan, nan
		proj.ContributionsPercent, proj.GrowthPercent = nan, nan
		return proj
	}

	start, perPeriod := funding(mode, goal.ExistingSavings.InexactFloat64(), totals)
	periods := wholePeriods(proj.Horizon.TotalPeriods)
	proj.Points = projectSeries(start, perPeriod, periodicRate(rate, contribPerYear), periods)

	target := goal.TargetAmount.InexactFloat64()
	last := &proj.Points[len(proj.Points)-1]
	contributions := float64(last.Contributions)
	growth := math.Max(target-contributions, 0)
	last.Total = domain.Figure(target)
	last.Growth = domain.Figure(growth)

	proj.ContributionsTotal = domain.Figure(contributions)
	proj.GrowthTotal = domain.Figure(growth)
	if target > 0 {
		proj.ContributionsPercent = domain.Figure(clampPercent(contributions / target * 100))
		proj.GrowthPercent = domain.Figure(clampPercent(growth / target * 100))
	}
	return proj
}

// funding returns the opening balance and per-period payment a mode starts from
func funding(mode domain.ProjectionMode, existing float64, totals domain.Totals) (start, perPeriod float64) {
	start, perPeriod = existing, float64(totals.PerPeriod)
	switch mode {
	case domain.ModeCombined:
		start += float64(totals.LumpSumNow)
	case domain.ModeLumpSum:
		start += float64(totals.LumpSumNow)
		perPeriod = 0
	}
	return start, perPeriod
}

// wholePeriods rounds a fractional period count up to the number of payments made
func wholePeriods(total float64) int {
	n := int(math.Ceil(total - periodTolerance))
	if n < 0 {
		return 0
	}
	return n
}

// projectSeries adds the contribution at each period, then applies one period of growth
func projectSeries(start, perPeriod, rate float64, periods int) []domain.ProjectionPoint {
	points := make([]domain.ProjectionPoint, 0, periods+1)
	balance, contributed := start, start
	points = append(points, domain.ProjectionPoint{
		Period:        0,
		Total:         domain.Figure(balance),
		Contributions: domain.Figure(contributed),
	})
	for p := 1; p <= periods; p++ {
		balance += perPeriod
		contributed += perPeriod
		balance *= 1 + rate
		points = append(points, domain.ProjectionPoint{
			Period:        p,
			Total:         domain.Figure(balance),
			Contributions: domain.Figure(contributed),
			Growth:        domain.Figure(balance - contributed),
		})
	}
	return points
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 100)
}

// CompareScenarios evaluates a base scenario and each alternative against the same plan
func (pe *PlanningEngine) CompareScenarios(plan *domain.GoalPlan, base ScenarioOptions, alternatives ...ScenarioOptions) *domain.ScenarioComparison {
	baseProj := pe.EvaluateScenario(plan, base)
	cmp := &domain.ScenarioComparison{
		GoalName:     plan.Goal.Name,
		Base:         *baseProj,
		Alternatives: make([]domain.ScenarioDelta, 0, len(alternatives)),
	}
	for _, alt := range alternatives {
		p := pe.EvaluateScenario(plan, alt)
		cmp.Alternatives = append(cmp.Alternatives, domain.ScenarioDelta{
			Projection:      *p,
			PerPeriodChange: p.Totals.PerPeriod - baseProj.Totals.PerPeriod,
			LumpSumChange:   p.Totals.LumpSumNow - baseProj.Totals.LumpSumNow,
			GrowthChange:    p.GrowthTotal - baseProj.GrowthTotal,
		})
	}
	return cmp
}
