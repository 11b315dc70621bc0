package output

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/domain"
)

var fixtureNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func yearsAfter(t time.Time, n float64) time.Time {
	return t.Add(time.Duration(n * 365.25 * 24 * float64(time.Hour)))
}

func percentMember(id string, role domain.Role, p int64) domain.Member {
	return domain.Member{UserID: id, Role: role, Share: domain.PercentShare(decimal.NewFromInt(p))}
}

func fixtureConfig() *domain.Configuration {
	alice := "Alice"
	return &domain.Configuration{
		Goals: []domain.Goal{
			{
				Name:                  "House deposit",
				TargetAmount:          decimal.NewFromInt(120000),
				Currency:              "USD",
				TargetDate:            yearsAfter(fixtureNow, 10),
				ExpectedRate:          decimal.NewFromInt(6),
				Compounding:           domain.Monthly,
				ContributionFrequency: domain.Monthly,
				Members: []domain.Member{
					percentMember("alice", domain.RoleOwner, 60),
					percentMember("bob", domain.RoleCollaborator, 40),
				},
			},
			{
				Name:                  "Family trip",
				TargetAmount:          decimal.NewFromInt(8000),
				Currency:              "USD",
				TargetDate:            yearsAfter(fixtureNow, 2),
				ExpectedRate:          decimal.NewFromInt(4),
				Compounding:           domain.Yearly,
				ContributionFrequency: domain.Monthly,
				Members: []domain.Member{
					percentMember("alice", domain.RoleOwner, 100),
				},
			},
		},
		MemberDirectory: map[string]domain.MemberDetail{
			"alice": {Email: "alice@example.com", Name: &alice},
			"bob":   {Email: "bob@example.com"},
		},
	}
}

func fixtureEngine() *calculation.PlanningEngine {
	pe := calculation.NewPlanningEngine()
	pe.Now = func() time.Time { return fixtureNow }
	return pe
}

func ratePtr(v float64) *float64 { return &v }

// fixtureReport is a two-goal report with one projection per goal and a comparison for the first goal.
func fixtureReport(t *testing.T) *domain.PlanReport {
	t.Helper()
	pe := fixtureEngine()
	report, err := pe.RunReport(context.Background(), fixtureConfig(), calculation.ScenarioOptions{})
	require.NoError(t, err)
	cmp := pe.CompareScenarios(&report.Plans[0], calculation.ScenarioOptions{},
		calculation.ScenarioOptions{RatePercent: ratePtr(8)},
		calculation.ScenarioOptions{TimelineOffsetMonths: 12},
		calculation.ScenarioOptions{RatePercent: ratePtr(4)},
	)
	report.Comparisons = append(report.Comparisons, *cmp)
	return report
}

// brokenReport holds a plan whose totals are not computable.
func brokenReport() *domain.PlanReport {
	nan := domain.Figure(math.NaN())
	return &domain.PlanReport{Plans: []domain.GoalPlan{{
		Goal: domain.Goal{
			Name:         "Broken",
			TargetAmount: decimal.NewFromInt(1000),
			Currency:     "USD",
			TargetDate:   yearsAfter(fixtureNow, 1),
		},
		Totals:   domain.Totals{PerPeriod: nan, LumpSumNow: nan},
		Members:  []domain.MemberPlan{{UserID: "carol", Role: domain.RoleOwner}},
		Warnings: []string{"Required contribution is not computable for these assumptions"},
	}}}
}
