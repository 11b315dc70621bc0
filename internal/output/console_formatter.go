package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/goal-planner/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "GOAL FUNDING SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for i := range report.Plans {
		p := &report.Plans[i]
		cur := p.Goal.Currency
		fmt.Fprintf(&buf, "%s: Target=%s By=%s PerPeriod=%s (%s) LumpSum=%s\n",
			p.Goal.Name,
			FormatCurrency(p.Goal.TargetAmount, cur),
			p.Goal.TargetDate.Format("2006-01-02"),
			FormatFigure(p.Totals.PerPeriod, cur),
			p.Assumptions.ContributionFrequency,
			FormatFigure(p.Totals.LumpSumNow, cur),
		)
		for _, m := range p.Members {
			share := "-"
			if m.PerPeriod != nil {
				share = FormatCurrency(*m.PerPeriod, cur)
			}
			fmt.Fprintf(&buf, "  %s (%s): %s\n", m.DisplayName(), m.Role, share)
		}
		if n := len(p.Warnings); n > 0 {
			fmt.Fprintf(&buf, "  %d warning(s)\n", n)
		}
	}
	for i := range report.Comparisons {
		rec := AnalyzeComparison(&report.Comparisons[i])
		if rec.Label != "" {
			fmt.Fprintln(&buf)
			fmt.Fprintf(&buf, "Cheapest scenario for %s: %s (Δ %s / %s)\n",
				report.Comparisons[i].GoalName, rec.Label,
				FormatFigure(rec.PerPeriodChange, report.Comparisons[i].Base.Currency),
				FormatFigurePercent(rec.PercentageChange))
		}
	}
	for _, sim := range report.Simulations {
		fmt.Fprintf(&buf, "Simulated %s: reaches target in %s of %d runs (median %s)\n",
			sim.GoalName, FormatFigurePercent(sim.SuccessRate), sim.NumSimulations,
			FormatFigure(sim.MedianEndingBalance, sim.Currency))
	}
	return buf.Bytes(), nil
}
