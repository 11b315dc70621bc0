package calculation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/rpgo/goal-planner/pkg/dateutil"
)

// frequencyOrMonthly resolves an unset or unknown frequency to monthly.
func frequencyOrMonthly(f domain.Frequency) (domain.Frequency, int) {
	if ppy := f.PeriodsPerYear(); ppy > 0 {
		return f, ppy
	}
	return domain.Monthly, domain.Monthly.PeriodsPerYear()
}

// newHorizon derives the years/months breakdown and period count for a horizon
func newHorizon(years float64, periodsPerYear int) domain.Horizon {
	if years < 0 || math.IsNaN(years) {
		years = 0
	}
	y, m := dateutil.SplitYears(years)
	return domain.Horizon{
		Years:          y,
		Months:         m,
		TotalPeriods:   float64(periodsPerYear) * years,
		PeriodsPerYear: periodsPerYear,
		ExactYears:     years,
	}
}

// solveTotals runs the time-value solvers for a goal over a horizon
func solveTotals(goal *domain.Goal, ratePercent float64, years float64) (domain.Totals, float64) {
	_, compPerYear := frequencyOrMonthly(goal.Compounding)
	_, contribPerYear := frequencyOrMonthly(goal.ContributionFrequency)

	net := NetTargetAfterExisting(
		goal.TargetAmount.InexactFloat64(),
		goal.ExistingSavings.InexactFloat64(),
		ratePercent, compPerYear, years,
	)
	return domain.Totals{
		PerPeriod:  domain.Figure(RequiredPaymentForFutureValue(net, ratePercent, contribPerYear, years)),
		LumpSumNow: domain.Figure(RequiredLumpSumForFutureValue(net, ratePercent, compPerYear, years)),
	}, net
}

// BuildPlan turns a goal and an optional identity lookup into a GoalPlan.
// The goal is copied; neither argument is modified.
func (pe *PlanningEngine) BuildPlan(goal domain.Goal, details map[string]domain.MemberDetail) *domain.GoalPlan {
	g := goal.Clone()
	asOf := pe.now()

	compounding, compPerYear := frequencyOrMonthly(g.Compounding)
	contribution, contribPerYear := frequencyOrMonthly(g.ContributionFrequency)
	rate := g.ExpectedRate.InexactFloat64()

	years := dateutil.HorizonYears(asOf, g.TargetDate)
	horizon := newHorizon(years, contribPerYear)
	totals, net := solveTotals(&g, rate, years)

	pe.log().Debugf("plan %q: years=%.4f periods=%.2f net=%.2f perPeriod=%v lumpSum=%v",
		g.Name, years, horizon.TotalPeriods, net, float64(totals.PerPeriod), float64(totals.LumpSumNow))

	plan := &domain.GoalPlan{
		Goal:    g,
		AsOf:    asOf,
		Horizon: horizon,
		Totals:  totals,
		Assumptions: domain.Assumptions{
			RatePercent:           rate,
			Compounding:           compounding,
			ContributionFrequency: contribution,
			CompoundingPerYear:    compPerYear,
			ContributionPerYear:   contribPerYear,
			ExistingSavings:       g.ExistingSavings,
			NetTarget:             domain.Figure(net),
		},
	}

	computable := plan.Computable()
	total := decimal.Zero
	if computable {
		total, _ = totals.PerPeriod.Decimal()
	}
	alloc := ComputeMemberAllocations(total, g.Members)
	if !computable {
		// without a known requirement only the stored commitments are meaningful
		alloc.Overflow = false
		alloc.Shortfall = decimal.Zero
		alloc.Remaining = decimal.Zero
		alloc.Unallocated = decimal.Zero
	}
	plan.Allocation = alloc.Summary()
	plan.Members = annotateMembers(g.Members, alloc, details, computable)
	plan.Warnings = planWarnings(&g, plan, alloc, asOf.Before(g.TargetDate))

	for _, w := range plan.Warnings {
		pe.log().Warnf("plan %q: %s", g.Name, w)
	}
	return plan
}

func annotateMembers(members []domain.Member, alloc AllocationResult, details map[string]domain.MemberDetail, computable bool) []domain.MemberPlan {
	out := make([]domain.MemberPlan, len(members))
	for i, m := range members {
		mp := domain.MemberPlan{UserID: m.UserID, Role: m.Role}
		if amt, ok := m.Share.FixedAmount(); ok {
			mp.FixedAmount = &amt
		} else {
			pct, _ := m.Share.Percent()
			mp.SplitPercent = &pct
		}
		if computable {
			per := alloc.Allocations[i].PerPeriod
			mp.PerPeriod = &per
		}
		if d, ok := details[m.UserID]; ok {
			mp.Email = d.Email
			mp.Name = d.Name
		}
		out[i] = mp
	}
	return out
}

func planWarnings(g *domain.Goal, plan *domain.GoalPlan, alloc AllocationResult, future bool) []string {
	var warnings []string

	if !future {
		warnings = append(warnings, "Target date is not in the future; the full net target is due now")
	}
	if !plan.Computable() {
		warnings = append(warnings, "Required contribution is not computable for these assumptions")
	}

	if alloc.PercentMembers > 0 {
		if alloc.PercentSum.Sub(hundred).Abs().GreaterThan(PercentWarningTolerance) {
			warnings = append(warnings, fmt.Sprintf("Percent shares total %s%%, adjust to 100%%", alloc.PercentSum.StringFixed(2)))
		}
		if alloc.PercentMembers < len(g.Members) {
			warnings = append(warnings, "Goal mixes fixed and percent-based splits")
		}
	}

	if alloc.Overflow {
		warnings = append(warnings, fmt.Sprintf("Fixed contributions exceed the required amount by %s per period",
			plan.Allocation.Shortfall.StringFixed(2)))
	}
	if alloc.ZeroPercentSum && alloc.Remaining.GreaterThan(AllocationEpsilon) {
		warnings = append(warnings, "Percent-based members have no share; the remaining requirement is unallocated")
	}
	return warnings
}
