package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/goal-planner/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed console report with bordered tables.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, RenderTitle("GOAL FUNDING PLAN"))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, headerStyle.Render("KEY ASSUMPTIONS:"))
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", mutedStyle.Render(a))
	}
	fmt.Fprintln(&buf)

	for i := range report.Plans {
		writePlan(&buf, i+1, &report.Plans[i])
	}

	for i := range report.Projections {
		writeProjection(&buf, &report.Projections[i])
	}

	for i := range report.Comparisons {
		writeComparison(&buf, &report.Comparisons[i])
	}

	for i := range report.Simulations {
		writeSimulation(&buf, &report.Simulations[i])
	}

	if commitments := SummarizeMembers(report); len(commitments) > 0 && len(report.Plans) > 1 {
		t := Table{Title: "YEARLY COMMITMENT BY MEMBER", Headers: []string{"Member", "Goals", "Per Year"}}
		for _, mc := range commitments {
			t.Rows = append(t.Rows, []string{mc.DisplayName, intToString(mc.Goals), FormatCurrency(mc.Annual, mc.Currency)})
		}
		fmt.Fprint(&buf, RenderTable(t))
	}

	return buf.Bytes(), nil
}

func writePlan(buf *bytes.Buffer, n int, p *domain.GoalPlan) {
	cur := p.Goal.Currency
	fmt.Fprintln(buf, headerStyle.Render(fmt.Sprintf("GOAL %d: %s", n, p.Goal.Name)))
	fmt.Fprintf(buf, "Target:            %s by %s\n", moneyStyle.Render(FormatCurrency(p.Goal.TargetAmount, cur)), p.Goal.TargetDate.Format("2006-01-02"))
	fmt.Fprintf(buf, "Time remaining:    %d years %d months (%s periods of %s)\n",
		p.Horizon.Years, p.Horizon.Months, domain.Figure(p.Horizon.TotalPeriods).Fixed(1), p.Assumptions.ContributionFrequency)
	fmt.Fprintf(buf, "Required per period: %s\n", moneyStyle.Render(FormatFigure(p.Totals.PerPeriod, cur)))
	fmt.Fprintf(buf, "Or one lump sum now: %s\n", moneyStyle.Render(FormatFigure(p.Totals.LumpSumNow, cur)))
	fmt.Fprintln(buf)

	t := Table{Headers: []string{"Member", "Role", "Share", "Per Period"}}
	for _, m := range p.Members {
		per := domain.NotAvailable
		if m.PerPeriod != nil {
			per = FormatCurrency(*m.PerPeriod, cur)
		}
		t.Rows = append(t.Rows, []string{m.DisplayName(), string(m.Role), ShareLabel(m, cur), per})
	}
	if p.Allocation.Overflow {
		t.Rows = append(t.Rows, []string{"---"}, []string{"Shortfall", "", "", FormatCurrency(p.Allocation.Shortfall, cur)})
	}
	fmt.Fprint(buf, RenderTable(t))

	for _, w := range p.Warnings {
		fmt.Fprintf(buf, "%s %s\n", warnStyle.Render("⚠"), w)
	}
	if !p.Computable() {
		fmt.Fprintln(buf, errorStyle.Render("Totals are not computable for these assumptions."))
	}
	fmt.Fprintln(buf, mutedStyle.Render("Assumptions:"))
	for _, a := range GenerateAssumptions(p) {
		fmt.Fprintf(buf, "  • %s\n", a)
	}
	fmt.Fprintln(buf)
}

func writeProjection(buf *bytes.Buffer, p *domain.ScenarioProjection) {
	cur := p.Currency
	fmt.Fprintln(buf, headerStyle.Render(fmt.Sprintf("PROJECTION: %s (%s, %s)", p.GoalName, ScenarioLabel(p), p.Mode)))
	fmt.Fprintf(buf, "Target date:       %s\n", p.TargetDate.Format("2006-01-02"))
	fmt.Fprintf(buf, "Per period:        %s\n", FormatFigure(p.Totals.PerPeriod, cur))
	fmt.Fprintf(buf, "Lump sum now:      %s\n", FormatFigure(p.Totals.LumpSumNow, cur))
	fmt.Fprintf(buf, "Contributions:     %s (%s)\n", FormatFigure(p.ContributionsTotal, cur), FormatFigurePercent(p.ContributionsPercent))
	fmt.Fprintf(buf, "Growth:            %s (%s)\n", FormatFigure(p.GrowthTotal, cur), FormatFigurePercent(p.GrowthPercent))

	if len(p.Points) > 0 {
		t := Table{Headers: []string{"Period", "Balance", "Contributed", "Growth"}}
		for _, pt := range sampleYearly(p.Points, p.Horizon.PeriodsPerYear) {
			t.Rows = append(t.Rows, []string{
				intToString(pt.Period),
				FormatFigure(pt.Total, cur),
				FormatFigure(pt.Contributions, cur),
				FormatFigure(pt.Growth, cur),
			})
		}
		fmt.Fprint(buf, RenderTable(t))
	}
	fmt.Fprintln(buf)
}

func writeComparison(buf *bytes.Buffer, cmp *domain.ScenarioComparison) {
	cur := cmp.Base.Currency
	t := Table{
		Title:   fmt.Sprintf("SCENARIOS: %s", cmp.GoalName),
		Headers: []string{"Scenario", "Per Period", "Change", "Lump Sum", "Growth"},
	}
	t.Rows = append(t.Rows, []string{
		"base " + ScenarioLabel(&cmp.Base),
		FormatFigure(cmp.Base.Totals.PerPeriod, cur),
		"",
		FormatFigure(cmp.Base.Totals.LumpSumNow, cur),
		FormatFigure(cmp.Base.GrowthTotal, cur),
	}, []string{"---"})
	for i := range cmp.Alternatives {
		alt := &cmp.Alternatives[i]
		t.Rows = append(t.Rows, []string{
			ScenarioLabel(&alt.Projection),
			FormatFigure(alt.Projection.Totals.PerPeriod, cur),
			FormatFigure(alt.PerPeriodChange, cur),
			FormatFigure(alt.Projection.Totals.LumpSumNow, cur),
			FormatFigure(alt.Projection.GrowthTotal, cur),
		})
	}
	fmt.Fprint(buf, RenderTable(t))

	if rec := AnalyzeComparison(cmp); rec.Label != "" {
		fmt.Fprintf(buf, "Lowest contribution: %s at %s per period (%s)\n",
			rec.Label, FormatFigure(rec.PerPeriod, cur), FormatFigurePercent(rec.PercentageChange))
	}
	fmt.Fprintln(buf)
}

func writeSimulation(buf *bytes.Buffer, s *domain.SimulationSummary) {
	cur := s.Currency
	t := Table{
		Title:   fmt.Sprintf("SIMULATION: %s (%s, %.2f%% ± %.2f%%)", s.GoalName, s.Mode, s.RatePercent, s.VolatilityPercent),
		Headers: []string{"Measure", "Value"},
		Rows: [][]string{
			{"Runs", intToString(s.NumSimulations)},
			{"Reached target", FormatFigurePercent(s.SuccessRate)},
			{"---"},
			{"10th percentile", FormatFigure(s.Percentiles.P10, cur)},
			{"25th percentile", FormatFigure(s.Percentiles.P25, cur)},
			{"Median", FormatFigure(s.MedianEndingBalance, cur)},
			{"75th percentile", FormatFigure(s.Percentiles.P75, cur)},
			{"90th percentile", FormatFigure(s.Percentiles.P90, cur)},
		},
	}
	fmt.Fprint(buf, RenderTable(t))
	fmt.Fprintf(buf, "%s\n\n", mutedStyle.Render(fmt.Sprintf("Target %s, seed %d", FormatCurrency(s.TargetAmount, cur), s.Seed)))
}

// sampleYearly keeps the first point, every full year and the last point.
func sampleYearly(points []domain.ProjectionPoint, periodsPerYear int) []domain.ProjectionPoint {
	if periodsPerYear <= 1 {
		return points
	}
	var out []domain.ProjectionPoint
	for i, pt := range points {
		if i == 0 || i == len(points)-1 || pt.Period%periodsPerYear == 0 {
			out = append(out, pt)
		}
	}
	return out
}
