package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/goal-planner/internal/domain"
)

// CSVDetailedExporter writes every projection point, one row per goal scenario period.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Goal", "Mode", "RatePercent", "OffsetMonths", "Period", "Total", "Contributions", "Growth", "IsFinal"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	write := func(p *domain.ScenarioProjection) error {
		for i, pt := range p.Points {
			row := []string{
				p.GoalName,
				string(p.Mode),
				strconv.FormatFloat(p.RatePercent, 'f', -1, 64),
				intToString(p.TimelineOffsetMonths),
				intToString(pt.Period),
				figureCell(pt.Total),
				figureCell(pt.Contributions),
				figureCell(pt.Growth),
				boolToString(i == len(p.Points)-1),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range report.Projections {
		if err := write(&report.Projections[i]); err != nil {
			return nil, err
		}
	}
	for i := range report.Comparisons {
		cmp := &report.Comparisons[i]
		if err := write(&cmp.Base); err != nil {
			return nil, err
		}
		for j := range cmp.Alternatives {
			if err := write(&cmp.Alternatives[j].Projection); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
