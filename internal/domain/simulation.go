package domain

import "github.com/shopspring/decimal"

// PercentileRanges are ending-balance percentiles across simulated runs
type PercentileRanges struct {
	P10 Figure `json:"p10"`
	P25 Figure `json:"p25"`
	P50 Figure `json:"p50"`
	P75 Figure `json:"p75"`
	P90 Figure `json:"p90"`
}

// SimulationSummary aggregates a Monte Carlo run of one goal plan.
// SuccessRate is the percentage of runs whose ending balance reached the target.
type SimulationSummary struct {
	GoalName            string           `json:"goalName"`
	Currency            string           `json:"currency"`
	Mode                ProjectionMode   `json:"mode"`
	RatePercent         float64          `json:"ratePercent"`
	VolatilityPercent   float64          `json:"volatilityPercent"`
	NumSimulations      int              `json:"numSimulations"`
	Seed                int64            `json:"seed"`
	TargetAmount        decimal.Decimal  `json:"targetAmount"`
	SuccessRate         Figure           `json:"successRate"`
	MedianEndingBalance Figure           `json:"medianEndingBalance"`
	Percentiles         PercentileRanges `json:"percentiles"`
}
