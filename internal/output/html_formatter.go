package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/goal-planner/internal/domain"
)

// HTMLFormatter produces a standalone HTML report with projection chart data embedded.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": func(d decimal.Decimal, cur string) string { return FormatCurrency(d, cur) },
	"currp": func(d *decimal.Decimal, cur string) string {
		if d == nil {
			return domain.NotAvailable
		}
		return FormatCurrency(*d, cur)
	},
	"fig":    FormatFigure,
	"figpct": FormatFigurePercent,
	"pct":    FormatPercentage,
	"date":   func(t time.Time) string { return t.Format("2006-01-02") },
	"label":  func(p domain.ScenarioProjection) string { return ScenarioLabel(&p) },
	"assume": func(p domain.GoalPlan) []string { return GenerateAssumptions(&p) },
	"share":  ShareLabel,
	"json": func(v interface{}) (template.JS, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(b), nil
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer

	recs := make([]Recommendation, len(report.Comparisons))
	for i := range report.Comparisons {
		recs[i] = AnalyzeComparison(&report.Comparisons[i])
	}

	data := struct {
		*domain.PlanReport
		Assumptions     []string
		Commitments     []MemberCommitment
		Recommendations []Recommendation
		GeneratedAt     time.Time
	}{report, DefaultAssumptions, SummarizeMembers(report), recs, nowFunc()}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
