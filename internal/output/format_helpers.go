package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rpgo/goal-planner/internal/domain"
	money "github.com/rpgo/goal-planner/pkg/decimal"
)

// FormatCurrency formats a decimal in the given currency with grouping and 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	return money.NewMoneyFromDecimal(amount, currency).Format()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatFigure renders an engine figure as currency, or "Not available".
func FormatFigure(f domain.Figure, currency string) string { return f.Money(currency) }

// FormatFigurePercent renders a figure as a percentage, or "Not available".
func FormatFigurePercent(f domain.Figure) string {
	if !f.Finite() {
		return domain.NotAvailable
	}
	return f.Fixed(2) + "%"
}

// figureCell is the CSV rendering of a figure: fixed 2 decimals, empty when not computable.
func figureCell(f domain.Figure) string {
	if !f.Finite() {
		return ""
	}
	return f.Fixed(2)
}

func decimalCell(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

// ShareLabel describes how a member contributes: "fixed $50.00" or "60.00%".
func ShareLabel(m domain.MemberPlan, currency string) string {
	switch {
	case m.FixedAmount != nil:
		return "fixed " + FormatCurrency(*m.FixedAmount, currency)
	case m.SplitPercent != nil:
		return FormatPercentage(*m.SplitPercent)
	}
	return ""
}
