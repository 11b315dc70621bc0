package domain

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/goal-planner/pkg/dateutil"
	money "github.com/rpgo/goal-planner/pkg/decimal"
)

// NotAvailable is how a non-finite figure is rendered to people.
const NotAvailable = "Not available"

// Figure is an engine result. Degenerate inputs (e.g. a rate at or below -100%)
// produce NaN or Inf; those are "not computable", never errors.
type Figure float64

// Float64 returns the raw value
func (f Figure) Float64() float64 { return float64(f) }

// Finite reports whether the figure can be displayed
func (f Figure) Finite() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Decimal converts a finite figure to a decimal
func (f Figure) Decimal() (decimal.Decimal, bool) {
	if !f.Finite() {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(float64(f)), true
}

// Money formats the figure in a currency, or NotAvailable
func (f Figure) Money(currency string) string {
	d, ok := f.Decimal()
	if !ok {
		return NotAvailable
	}
	return money.NewMoneyFromDecimal(d, currency).Format()
}

// Fixed formats the figure with the given number of decimals, or NotAvailable
func (f Figure) Fixed(places int) string {
	if !f.Finite() {
		return NotAvailable
	}
	return strconv.FormatFloat(float64(f), 'f', places, 64)
}

// MarshalJSON writes non-finite figures as null
func (f Figure) MarshalJSON() ([]byte, error) {
	if !f.Finite() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(f), 'f', -1, 64)), nil
}

// UnmarshalJSON reads null back as NaN
func (f *Figure) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Figure(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(bytes.Trim(data, `"`)), 64)
	if err != nil {
		return fmt.Errorf("figure: %w", err)
	}
	*f = Figure(v)
	return nil
}

// Horizon is the time left until the target date
type Horizon struct {
	Years          int     `json:"years"`
	Months         int     `json:"months"`
	TotalPeriods   float64 `json:"totalPeriods"`
	PeriodsPerYear int     `json:"nPerYear"`
	ExactYears     float64 `json:"exactYears"`
}

// TotalMonths is the rounded month count of the horizon
func (h Horizon) TotalMonths() int { return dateutil.TotalMonths(h.Years, h.Months) }

// IsZero reports whether there is no time left
func (h Horizon) IsZero() bool { return h.TotalPeriods <= 0 }

// Totals are the two alternative ways of funding the net target:
// contribute PerPeriod every period, or deposit LumpSumNow once today.
type Totals struct {
	PerPeriod  Figure `json:"perPeriod"`
	LumpSumNow Figure `json:"lumpSumNow"`
}

// MemberPlan is a member annotated with its live per-period contribution
type MemberPlan struct {
	UserID       string           `json:"userId"`
	Role         Role             `json:"role"`
	SplitPercent *decimal.Decimal `json:"splitPercent,omitempty"`
	FixedAmount  *decimal.Decimal `json:"fixedAmount,omitempty"`
	// PerPeriod is nil when the plan totals are not computable.
	PerPeriod *decimal.Decimal `json:"perPeriod"`
	Email     string           `json:"email,omitempty"`
	Name      *string          `json:"name,omitempty"`
}

// DisplayName prefers the looked-up name, then email, then user id
func (mp MemberPlan) DisplayName() string {
	if mp.Name != nil && *mp.Name != "" {
		return *mp.Name
	}
	if mp.Email != "" {
		return mp.Email
	}
	return mp.UserID
}

// AllocationSummary echoes the allocation flags a caller may act on
type AllocationSummary struct {
	FixedTotal     decimal.Decimal `json:"fixedTotal"`
	PercentSum     decimal.Decimal `json:"percentSum"`
	Remaining      decimal.Decimal `json:"remaining"`
	Overflow       bool            `json:"overflow"`
	Shortfall      decimal.Decimal `json:"shortfall"`
	ZeroPercentSum bool            `json:"zeroPercentSum"`
	Unallocated    decimal.Decimal `json:"unallocated"`
}

// Assumptions records the inputs a plan was computed under
type Assumptions struct {
	RatePercent           float64         `json:"ratePercent"`
	Compounding           Frequency       `json:"compounding"`
	ContributionFrequency Frequency       `json:"contributionFrequency"`
	CompoundingPerYear    int             `json:"compoundingPerYear"`
	ContributionPerYear   int             `json:"contributionPerYear"`
	ExistingSavings       decimal.Decimal `json:"existingSavings"`
	NetTarget             Figure          `json:"netTarget"`
}

// Describe renders the assumptions as bullet lines
func (a Assumptions) Describe(currency string) []string {
	return []string{
		fmt.Sprintf("Expected growth: %.2f%% annually, compounded %s", a.RatePercent, a.Compounding),
		fmt.Sprintf("Contributions: %s (%d per year)", a.ContributionFrequency, a.ContributionPerYear),
		fmt.Sprintf("Existing savings: %s", money.NewMoneyFromDecimal(a.ExistingSavings, currency).Format()),
		fmt.Sprintf("Net target after existing savings growth: %s", a.NetTarget.Money(currency)),
		"Periodic contribution and lump sum are alternative ways to reach the same net target",
	}
}

// GoalPlan is the computed, read-only view of a goal
type GoalPlan struct {
	Goal        Goal              `json:"goal"`
	AsOf        time.Time         `json:"asOf"`
	Horizon     Horizon           `json:"horizon"`
	Totals      Totals            `json:"totals"`
	Members     []MemberPlan      `json:"members"`
	Allocation  AllocationSummary `json:"allocation"`
	Assumptions Assumptions       `json:"assumptions"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// Computable reports whether the plan's totals can be displayed
func (p *GoalPlan) Computable() bool {
	return p.Totals.PerPeriod.Finite() && p.Totals.LumpSumNow.Finite()
}

// ProjectionMode selects how the projection series is funded
type ProjectionMode string

const (
	// ModeCombined starts from existing savings plus the lump sum and adds periodic contributions.
	ModeCombined ProjectionMode = "combined"
	// ModePeriodic starts from existing savings and adds periodic contributions only.
	ModePeriodic ProjectionMode = "periodic"
	// ModeLumpSum starts from existing savings plus the lump sum with no further contributions.
	ModeLumpSum ProjectionMode = "lump-sum"
)

// Valid reports whether m is a known mode; the empty mode is treated as combined
func (m ProjectionMode) Valid() bool {
	switch m {
	case "", ModeCombined, ModePeriodic, ModeLumpSum:
		return true
	}
	return false
}

// ProjectionPoint is one period of a projection series
type ProjectionPoint struct {
	Period        int    `json:"period"`
	Total         Figure `json:"total"`
	Contributions Figure `json:"contributions"`
	Growth        Figure `json:"growth"`
}

// ScenarioProjection is a what-if re-run of a plan
type ScenarioProjection struct {
	GoalName             string            `json:"goalName"`
	Currency             string            `json:"currency"`
	Mode                 ProjectionMode    `json:"mode"`
	RatePercent          float64           `json:"ratePercent"`
	TimelineOffsetMonths int               `json:"timelineOffsetMonths"`
	TargetAmount         decimal.Decimal   `json:"targetAmount"`
	TargetDate           time.Time         `json:"targetDate"`
	Horizon              Horizon           `json:"horizon"`
	Totals               Totals            `json:"totals"`
	Points               []ProjectionPoint `json:"points"`
	ContributionsTotal   Figure            `json:"contributionsTotal"`
	GrowthTotal          Figure            `json:"growthTotal"`
	ContributionsPercent Figure            `json:"contributionsPercent"`
	GrowthPercent        Figure            `json:"growthPercent"`
}

// ScenarioDelta is an alternative projection measured against a base
type ScenarioDelta struct {
	Projection      ScenarioProjection `json:"projection"`
	PerPeriodChange Figure             `json:"perPeriodChange"`
	LumpSumChange   Figure             `json:"lumpSumChange"`
	GrowthChange    Figure             `json:"growthChange"`
}

// ScenarioComparison holds a base projection and its alternatives
type ScenarioComparison struct {
	GoalName     string             `json:"goalName"`
	Base         ScenarioProjection `json:"base"`
	Alternatives []ScenarioDelta    `json:"alternatives"`
}

// PlanReport bundles everything a formatter can render
type PlanReport struct {
	Plans       []GoalPlan           `json:"plans"`
	Projections []ScenarioProjection `json:"projections,omitempty"`
	Comparisons []ScenarioComparison `json:"comparisons,omitempty"`
	Simulations []SimulationSummary  `json:"simulations,omitempty"`
}
