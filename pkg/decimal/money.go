package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a goal does not name one.
const DefaultCurrency = "USD"

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "C$",
	"AUD": "A$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"CHF": "CHF ",
}

// Money is a currency-tagged amount with financial precision
type Money struct {
	decimal.Decimal
	Currency string
}

// NewMoneyFromDecimal creates a Money from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal, currency string) Money {
	return Money{Decimal: d, Currency: normalizeCurrency(currency)}
}

// Mul multiplies by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Decimal: m.Decimal.Mul(factor), Currency: m.Currency}
}

// PerYear converts a per-period amount into a yearly total
func (m Money) PerYear(periodsPerYear int) Money {
	return m.Mul(decimal.NewFromInt(int64(periodsPerYear)))
}

// Symbol returns the display symbol for the amount's currency
func (m Money) Symbol() string {
	return CurrencySymbol(m.Currency)
}

// String returns the amount with two decimals and no symbol
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount with its currency symbol and thousands separators
func (m Money) Format() string {
	s := m.Decimal.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart) + "." + frac
	sign := ""
	if m.Decimal.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + m.Symbol() + out
}

// CurrencySymbol maps an ISO 4217 code to a display prefix.
// Unknown codes render as "CODE ".
func CurrencySymbol(code string) string {
	code = normalizeCurrency(code)
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code + " "
}

// IsCurrencyCode reports whether code looks like an ISO 4217 code
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
