package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/goal-planner/internal/domain"
)

func ratePtr(v float64) *float64 { return &v }

func TestEvaluateScenario_DefaultsMatchPlan(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)

	proj := pe.EvaluateScenario(plan, ScenarioOptions{})

	assert.Equal(t, domain.ModeCombined, proj.Mode)
	assert.Equal(t, 6.0, proj.RatePercent)
	assert.Equal(t, 0, proj.TimelineOffsetMonths)
	assert.Equal(t, plan.Goal.TargetDate, proj.TargetDate)
	assert.InDelta(t, plan.Totals.PerPeriod.Float64(), proj.Totals.PerPeriod.Float64(), 1e-9)
	assert.InDelta(t, plan.Totals.LumpSumNow.Float64(), proj.Totals.LumpSumNow.Float64(), 1e-9)
	assert.Equal(t, "House deposit", proj.GoalName)
	assert.Equal(t, "USD", proj.Currency)
}

func TestEvaluateScenario_Series(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)
	per := plan.Totals.PerPeriod.Float64()
	lump := plan.Totals.LumpSumNow.Float64()

	proj := pe.EvaluateScenario(plan, ScenarioOptions{})
	require.Len(t, proj.Points, 121)

	first := proj.Points[0]
	assert.Equal(t, 0, first.Period)
	assert.InDelta(t, lump, first.Total.Float64(), 1e-9)
	assert.InDelta(t, lump, first.Contributions.Float64(), 1e-9)
	assert.Equal(t, 0.0, first.Growth.Float64())

	second := proj.Points[1]
	assert.InDelta(t, (lump+per)*1.005, second.Total.Float64(), 1e-6)
	assert.InDelta(t, lump+per, second.Contributions.Float64(), 1e-9)
	assert.InDelta(t, (lump+per)*0.005, second.Growth.Float64(), 1e-6)

	for i := 1; i < len(proj.Points)-1; i++ {
		assert.Greater(t, proj.Points[i].Total.Float64(), proj.Points[i-1].Total.Float64())
	}

	last := proj.Points[120]
	assert.Equal(t, 120000.0, last.Total.Float64(), "final point snaps to the target")
	contributions := lump + 120*per
	assert.InDelta(t, contributions, last.Contributions.Float64(), 1e-6)
	// Both alternatives together overshoot the target, so no growth is needed.
	assert.Equal(t, 0.0, last.Growth.Float64())
	assert.Equal(t, 100.0, proj.ContributionsPercent.Float64())
	assert.Equal(t, 0.0, proj.GrowthPercent.Float64())
}

func TestEvaluateScenario_Modes(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)
	per := plan.Totals.PerPeriod.Float64()
	lump := plan.Totals.LumpSumNow.Float64()

	tests := []struct {
		mode        domain.ProjectionMode
		start       float64
		contributed float64
		growthShare float64
	}{
		{domain.ModePeriodic, 0, 120 * per, 100 - 120*per/1200},
		{domain.ModeLumpSum, lump, lump, 100 - lump/1200},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			proj := pe.EvaluateScenario(plan, ScenarioOptions{Mode: tt.mode})
			require.Len(t, proj.Points, 121)

			assert.Equal(t, tt.mode, proj.Mode)
			assert.InDelta(t, tt.start, proj.Points[0].Total.Float64(), 1e-9)
			assert.InDelta(t, tt.contributed, proj.ContributionsTotal.Float64(), 1e-6)
			assert.InDelta(t, 120000-tt.contributed, proj.GrowthTotal.Float64(), 1e-6)
			assert.InDelta(t, tt.growthShare, proj.GrowthPercent.Float64(), 1e-6)
			assert.InDelta(t, 100, proj.GrowthPercent.Float64()+proj.ContributionsPercent.Float64(), 1e-9)
			assert.Equal(t, 120000.0, proj.Points[120].Total.Float64())
		})
	}

	// Lump-sum growth alone lands on the target before the snap.
	proj := pe.EvaluateScenario(plan, ScenarioOptions{Mode: domain.ModeLumpSum})
	assert.InDelta(t, 120000*(1/1.005), proj.Points[119].Total.Float64(), 1e-3)

	// Unknown modes fall back to combined.
	proj = pe.EvaluateScenario(plan, ScenarioOptions{Mode: "weekly"})
	assert.Equal(t, domain.ModeCombined, proj.Mode)
}

func TestEvaluateScenario_RateOverride(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)

	higher := pe.EvaluateScenario(plan, ScenarioOptions{RatePercent: ratePtr(10)})
	zero := pe.EvaluateScenario(plan, ScenarioOptions{RatePercent: ratePtr(0), Mode: domain.ModePeriodic})

	assert.Equal(t, 10.0, higher.RatePercent)
	assert.Less(t, higher.Totals.PerPeriod.Float64(), plan.Totals.PerPeriod.Float64())
	assert.InDelta(t, 1000, zero.Totals.PerPeriod.Float64(), 1e-9)
	assert.InDelta(t, 120000, zero.ContributionsTotal.Float64(), 1e-6)
	assert.InDelta(t, 0, zero.GrowthTotal.Float64(), 1e-6)

	// The base plan is untouched.
	assert.Equal(t, "6", plan.Goal.ExpectedRate.String())
	assert.InDelta(t, 732.246, plan.Totals.PerPeriod.Float64(), 1e-3)
}

func TestEvaluateScenario_TimelineOffset(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)

	tests := []struct {
		name       string
		offset     int
		wantOffset int
		wantYears  int
		wantPoints int
	}{
		{"one year later", 12, 12, 11, 133},
		{"one year sooner", -12, -12, 9, 109},
		{"clamped to the base horizon", -200, -120, 0, 1},
		{"clamped to twenty years", 500, 240, 30, 361},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proj := pe.EvaluateScenario(plan, ScenarioOptions{TimelineOffsetMonths: tt.offset})
			assert.Equal(t, tt.wantOffset, proj.TimelineOffsetMonths)
			assert.Equal(t, tt.wantYears, proj.Horizon.Years)
			assert.Len(t, proj.Points, tt.wantPoints)
			assert.Equal(t, plan.Goal.TargetDate.AddDate(0, tt.wantOffset, 0), proj.TargetDate)
			assert.Equal(t, 120000.0, proj.Points[len(proj.Points)-1].Total.Float64())
		})
	}

	later := pe.EvaluateScenario(plan, ScenarioOptions{TimelineOffsetMonths: 12})
	assert.Less(t, later.Totals.PerPeriod.Float64(), plan.Totals.PerPeriod.Float64())

	now := pe.EvaluateScenario(plan, ScenarioOptions{TimelineOffsetMonths: -120})
	assert.Equal(t, 120000.0, now.Totals.PerPeriod.Float64(), "zero horizon makes the whole target due now")
}

func TestEvaluateScenario_NotComputable(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)

	proj := pe.EvaluateScenario(plan, ScenarioOptions{RatePercent: ratePtr(-100)})

	assert.False(t, proj.Totals.PerPeriod.Finite())
	assert.Empty(t, proj.Points)
	assert.False(t, proj.ContributionsTotal.Finite())
	assert.False(t, proj.GrowthPercent.Finite())
}

func TestEvaluateScenario_ExistingSavingsCountAsContributions(t *testing.T) {
	pe := newTestEngine()
	g := houseGoal()
	g.ExistingSavings = decimal.NewFromInt(20000)
	plan := pe.BuildPlan(g, nil)

	proj := pe.EvaluateScenario(plan, ScenarioOptions{Mode: domain.ModePeriodic})
	assert.InDelta(t, 20000, proj.Points[0].Total.Float64(), 1e-9)
	assert.InDelta(t, 20000+120*plan.Totals.PerPeriod.Float64(), proj.ContributionsTotal.Float64(), 1e-6)
}

func TestCompareScenarios(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)

	cmp := pe.CompareScenarios(plan, ScenarioOptions{Mode: domain.ModePeriodic},
		ScenarioOptions{RatePercent: ratePtr(8), Mode: domain.ModePeriodic},
		ScenarioOptions{TimelineOffsetMonths: -24, Mode: domain.ModePeriodic},
	)

	assert.Equal(t, "House deposit", cmp.GoalName)
	require.Len(t, cmp.Alternatives, 2)

	faster := cmp.Alternatives[0]
	assert.Less(t, faster.PerPeriodChange.Float64(), 0.0)
	assert.Less(t, faster.LumpSumChange.Float64(), 0.0)
	assert.Greater(t, faster.GrowthChange.Float64(), 0.0)
	assert.InDelta(t,
		faster.Projection.Totals.PerPeriod.Float64()-cmp.Base.Totals.PerPeriod.Float64(),
		faster.PerPeriodChange.Float64(), 1e-12)

	sooner := cmp.Alternatives[1]
	assert.Greater(t, sooner.PerPeriodChange.Float64(), 0.0)
	assert.Equal(t, -24, sooner.Projection.TimelineOffsetMonths)
}

func TestRunReport(t *testing.T) {
	pe := newTestEngine()
	cfg := &domain.Configuration{Goals: []domain.Goal{houseGoal()}}

	report, err := pe.RunReport(t.Context(), cfg, ScenarioOptions{}, ScenarioOptions{RatePercent: ratePtr(4)})
	require.NoError(t, err)
	require.Len(t, report.Plans, 1)
	require.Len(t, report.Projections, 2)
	assert.Equal(t, 4.0, report.Projections[1].RatePercent)
}
