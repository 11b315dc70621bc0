package output

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/goal-planner/internal/domain"
)

func TestAnalyzeComparison_PicksLowestContribution(t *testing.T) {
	report := fixtureReport(t)
	rec := AnalyzeComparison(&report.Comparisons[0])

	assert.Equal(t, "6.00% / +12 months", rec.Label)
	assert.InDelta(t, 644.044, rec.PerPeriod.Float64(), 1e-2)
	assert.InDelta(t, -88.20, rec.PerPeriodChange.Float64(), 1e-2)
	assert.InDelta(t, -12.045, rec.PercentageChange.Float64(), 1e-2)
}

func TestAnalyzeComparison_NoCheaperAlternative(t *testing.T) {
	cmp := &domain.ScenarioComparison{
		Base: domain.ScenarioProjection{Totals: domain.Totals{PerPeriod: 100}},
		Alternatives: []domain.ScenarioDelta{
			{PerPeriodChange: 5},
			{PerPeriodChange: domain.Figure(math.NaN())},
		},
	}
	assert.Equal(t, Recommendation{}, AnalyzeComparison(cmp))
}

func TestScenarioLabel(t *testing.T) {
	assert.Equal(t, "6.00%", ScenarioLabel(&domain.ScenarioProjection{RatePercent: 6}))
	assert.Equal(t, "7.50% / -6 months", ScenarioLabel(&domain.ScenarioProjection{RatePercent: 7.5, TimelineOffsetMonths: -6}))
}

func TestSummarizeMembers(t *testing.T) {
	report := fixtureReport(t)
	got := SummarizeMembers(report)

	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].UserID)
	assert.Equal(t, "Alice", got[0].DisplayName)
	assert.Equal(t, 2, got[0].Goals)
	assert.Equal(t, "bob", got[1].UserID)
	assert.Equal(t, "bob@example.com", got[1].DisplayName)
	assert.Equal(t, 1, got[1].Goals)
	assert.InDelta(t, 3514.78, got[1].Annual.InexactFloat64(), 0.1)
}

func TestSummarizeMembers_SkipsUncomputablePlans(t *testing.T) {
	assert.Empty(t, SummarizeMembers(brokenReport()))
}

func TestGenerateAssumptions(t *testing.T) {
	report := fixtureReport(t)
	lines := GenerateAssumptions(&report.Plans[0])

	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "6.00% annually")
	assert.Equal(t, "Horizon: 10 years 0 months (120.00 periods)", lines[len(lines)-1])
}
