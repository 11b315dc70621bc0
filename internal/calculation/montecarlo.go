package calculation

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/rpgo/goal-planner/internal/domain"
)

// DefaultSimulations is used when MonteCarloConfig.NumSimulations is not set.
const DefaultSimulations = 1000

// maxConcurrentSimulations limits the goroutines running at once.
const maxConcurrentSimulations = 10

// successTolerance is half a cent: an ending balance this close to the target counts as reaching it.
const successTolerance = 0.005

// ErrNegativeVolatility is returned for a volatility below zero.
var ErrNegativeVolatility = errors.New("volatility must not be negative")

// MonteCarloConfig holds configuration for a goal simulation
type MonteCarloConfig struct {
	NumSimulations int
	// VolatilityPercent is the annual standard deviation of returns, e.g. 15 for 15%.
	VolatilityPercent float64
	// Seed makes runs reproducible; 0 draws one from the seed provider.
	Seed int64
	Mode domain.ProjectionMode
}

// SimulationOutcome is the result of one simulated path
type SimulationOutcome struct {
	EndingBalance float64
	Success       bool
}

// SimulateGoal funds the plan as the mode prescribes and replays it under random
// periodic returns centred on the goal's expected rate. Each run draws from its own
// source seeded from Seed, so results do not depend on scheduling.
// A plan whose totals are not computable yields NaN figures, not an error.
func (pe *PlanningEngine) SimulateGoal(ctx context.Context, plan *domain.GoalPlan, config MonteCarloConfig) (*domain.SimulationSummary, error) {
	if config.VolatilityPercent < 0 || math.IsNaN(config.VolatilityPercent) {
		return nil, ErrNegativeVolatility
	}
	if config.NumSimulations <= 0 {
		config.NumSimulations = DefaultSimulations
	}
	if config.Seed == 0 {
		config.Seed = seedFunc()
	}
	if config.Mode == "" || !config.Mode.Valid() {
		config.Mode = domain.ModeCombined
	}

	goal := &plan.Goal
	rate := goal.ExpectedRate.InexactFloat64()
	summary := &domain.SimulationSummary{
		GoalName:          goal.Name,
		Currency:          goal.Currency,
		Mode:              config.Mode,
		RatePercent:       rate,
		VolatilityPercent: config.VolatilityPercent,
		NumSimulations:    config.NumSimulations,
		Seed:              config.Seed,
		TargetAmount:      goal.TargetAmount,
	}
	if !plan.Computable() {
		nan := domain.Figure(math.NaN())
		summary.SuccessRate, summary.MedianEndingBalance = nan, nan
		summary.Percentiles = domain.PercentileRanges{P10: nan, P25: nan, P50: nan, P75: nan, P90: nan}
		return summary, nil
	}

	ppy := plan.Horizon.PeriodsPerYear
	if ppy <= 0 {
		_, ppy = frequencyOrMonthly(goal.ContributionFrequency)
	}
	path := simulationPath{
		periods: wholePeriods(plan.Horizon.TotalPeriods),
		mean:    periodicRate(rate, ppy),
		stddev:  config.VolatilityPercent / 100 / math.Sqrt(float64(ppy)),
		target:  goal.TargetAmount.InexactFloat64(),
	}
	path.start, path.perPeriod = funding(config.Mode, goal.ExistingSavings.InexactFloat64(), plan.Totals)

	pe.log().Debugf("simulate %q: runs=%d rate=%.2f vol=%.2f periods=%d seed=%d",
		goal.Name, config.NumSimulations, rate, config.VolatilityPercent, path.periods, config.Seed)

	// Run simulations in parallel
	results := make([]SimulationOutcome, config.NumSimulations)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentSimulations)

	for i := 0; i < config.NumSimulations; i++ {
		wg.Add(1)
		go func(simIndex int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			if ctx.Err() != nil {
				return
			}
			rng := rand.New(rand.NewSource(config.Seed + int64(simIndex)))
			results[simIndex] = path.run(rng)
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary.SuccessRate = calculateSuccessRate(results)
	summary.Percentiles = calculatePercentileRanges(results)
	summary.MedianEndingBalance = summary.Percentiles.P50
	return summary, nil
}

// simulationPath is the fixed part of every run of one goal
type simulationPath struct {
	periods          int
	start, perPeriod float64
	mean, stddev     float64
	target           float64
}

// run mirrors the deterministic projection: contribute, then grow by a drawn return.
// A return below -100% empties the balance rather than making it negative.
func (sp simulationPath) run(rng *rand.Rand) SimulationOutcome {
	balance := sp.start
	for p := 0; p < sp.periods; p++ {
		r := sp.mean + sp.stddev*rng.NormFloat64()
		balance = math.Max((balance+sp.perPeriod)*(1+r), 0)
	}
	return SimulationOutcome{
		EndingBalance: balance,
		Success:       balance >= sp.target-successTolerance,
	}
}

// calculateSuccessRate returns the percentage of successful simulations
func calculateSuccessRate(simulations []SimulationOutcome) domain.Figure {
	successCount := 0
	for _, sim := range simulations {
		if sim.Success {
			successCount++
		}
	}
	return domain.Figure(float64(successCount) / float64(len(simulations)) * 100)
}

// calculatePercentileRanges calculates percentile ranges for ending balances
func calculatePercentileRanges(simulations []SimulationOutcome) domain.PercentileRanges {
	balances := make([]float64, len(simulations))
	for i, sim := range simulations {
		balances[i] = sim.EndingBalance
	}
	sort.Float64s(balances)

	n := len(balances)
	return domain.PercentileRanges{
		P10: domain.Figure(balances[n/10]),
		P25: domain.Figure(balances[n/4]),
		P50: domain.Figure(balances[n/2]),
		P75: domain.Figure(balances[3*n/4]),
		P90: domain.Figure(balances[9*n/10]),
	}
}
