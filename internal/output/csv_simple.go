package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rpgo/goal-planner/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per goal member).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Goal", "Currency", "TargetAmount", "TargetDate", "Years", "Months", "TotalPeriods", "PeriodsPerYear", "GoalPerPeriod", "LumpSumNow", "UserID", "Role", "SplitPercent", "FixedAmount", "MemberPerPeriod", "Overflow", "Warnings"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	plans := append([]domain.GoalPlan(nil), report.Plans...)
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].Goal.Name < plans[j].Goal.Name })
	for _, p := range plans {
		for _, m := range p.Members {
			row := []string{
				p.Goal.Name,
				p.Goal.Currency,
				p.Goal.TargetAmount.StringFixed(2),
				p.Goal.TargetDate.Format("2006-01-02"),
				intToString(p.Horizon.Years),
				intToString(p.Horizon.Months),
				figureCell(domain.Figure(p.Horizon.TotalPeriods)),
				intToString(p.Horizon.PeriodsPerYear),
				figureCell(p.Totals.PerPeriod),
				figureCell(p.Totals.LumpSumNow),
				m.UserID,
				string(m.Role),
				decimalCell(m.SplitPercent),
				decimalCell(m.FixedAmount),
				decimalCell(m.PerPeriod),
				boolToString(p.Allocation.Overflow),
				intToString(len(p.Warnings)),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
