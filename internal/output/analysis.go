package output

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rpgo/goal-planner/internal/domain"
	money "github.com/rpgo/goal-planner/pkg/decimal"
)

// MemberCommitment is one member's yearly contribution across every goal in a currency.
type MemberCommitment struct {
	UserID      string
	DisplayName string
	Currency    string
	Annual      decimal.Decimal
	Goals       int
}

// SummarizeMembers totals each member's live contributions per year across plans.
// Plans that are not computable are skipped.
func SummarizeMembers(report *domain.PlanReport) []MemberCommitment {
	type key struct{ user, currency string }
	byKey := map[key]*MemberCommitment{}
	for _, p := range report.Plans {
		for _, m := range p.Members {
			if m.PerPeriod == nil {
				continue
			}
			k := key{m.UserID, p.Goal.Currency}
			mc, ok := byKey[k]
			if !ok {
				mc = &MemberCommitment{UserID: m.UserID, DisplayName: m.DisplayName(), Currency: p.Goal.Currency}
				byKey[k] = mc
			}
			annual := money.NewMoneyFromDecimal(*m.PerPeriod, p.Goal.Currency).PerYear(p.Horizon.PeriodsPerYear)
			mc.Annual = mc.Annual.Add(annual.Decimal)
			mc.Goals++
		}
	}

	out := make([]MemberCommitment, 0, len(byKey))
	for _, mc := range byKey {
		out = append(out, *mc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Annual.Equal(out[j].Annual) {
			return out[i].Annual.GreaterThan(out[j].Annual)
		}
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}

// Recommendation is the cheapest alternative in a scenario comparison.
type Recommendation struct {
	Label            string
	PerPeriod        domain.Figure
	PerPeriodChange  domain.Figure
	PercentageChange domain.Figure
}

// ScenarioLabel describes a projection's overrides, e.g. "8.00% / +12 months".
func ScenarioLabel(p *domain.ScenarioProjection) string {
	if p.TimelineOffsetMonths == 0 {
		return fmt.Sprintf("%.2f%%", p.RatePercent)
	}
	return fmt.Sprintf("%.2f%% / %+d months", p.RatePercent, p.TimelineOffsetMonths)
}

// AnalyzeComparison picks the alternative with the lowest required contribution.
// The zero Recommendation means no alternative beats the base.
func AnalyzeComparison(cmp *domain.ScenarioComparison) Recommendation {
	var best *domain.ScenarioDelta
	for i := range cmp.Alternatives {
		alt := &cmp.Alternatives[i]
		if !alt.PerPeriodChange.Finite() || alt.PerPeriodChange >= 0 {
			continue
		}
		if best == nil || alt.PerPeriodChange < best.PerPeriodChange {
			best = alt
		}
	}
	if best == nil {
		return Recommendation{}
	}
	rec := Recommendation{
		Label:           ScenarioLabel(&best.Projection),
		PerPeriod:       best.Projection.Totals.PerPeriod,
		PerPeriodChange: best.PerPeriodChange,
	}
	if base := cmp.Base.Totals.PerPeriod; base.Finite() && base != 0 {
		rec.PercentageChange = best.PerPeriodChange / base * 100
	}
	return rec
}
