package calculation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/goal-planner/internal/domain"
)

func TestSimulateGoal_NoVolatilityAlwaysSucceeds(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)

	for _, mode := range []domain.ProjectionMode{domain.ModeCombined, domain.ModePeriodic, domain.ModeLumpSum} {
		t.Run(string(mode), func(t *testing.T) {
			res, err := pe.SimulateGoal(context.Background(), plan, MonteCarloConfig{NumSimulations: 50, Seed: 7, Mode: mode})
			require.NoError(t, err)
			assert.Equal(t, 100.0, res.SuccessRate.Float64())
			assert.Equal(t, res.Percentiles.P10, res.Percentiles.P90)
			assert.GreaterOrEqual(t, res.MedianEndingBalance.Float64(), 120000-successTolerance)
		})
	}
}

func TestSimulateGoal_LumpSumWithoutVolatilityLandsOnTarget(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)

	res, err := pe.SimulateGoal(context.Background(), plan, MonteCarloConfig{NumSimulations: 10, Seed: 1, Mode: domain.ModeLumpSum})
	require.NoError(t, err)
	assert.InDelta(t, 120000, res.MedianEndingBalance.Float64(), 1e-6)
}

func TestSimulateGoal_Reproducible(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)
	cfg := MonteCarloConfig{NumSimulations: 400, VolatilityPercent: 15, Seed: 42, Mode: domain.ModePeriodic}

	a, err := pe.SimulateGoal(context.Background(), plan, cfg)
	require.NoError(t, err)
	b, err := pe.SimulateGoal(context.Background(), plan, cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	cfg.Seed = 43
	c, err := pe.SimulateGoal(context.Background(), plan, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Percentiles, c.Percentiles)
}

func TestSimulateGoal_VolatilitySpreadsOutcomes(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)

	res, err := pe.SimulateGoal(context.Background(), plan, MonteCarloConfig{NumSimulations: 500, VolatilityPercent: 15, Seed: 3, Mode: domain.ModePeriodic})
	require.NoError(t, err)

	assert.Greater(t, res.SuccessRate.Float64(), 0.0)
	assert.Less(t, res.SuccessRate.Float64(), 100.0)
	p := res.Percentiles
	assert.LessOrEqual(t, p.P10.Float64(), p.P25.Float64())
	assert.LessOrEqual(t, p.P25.Float64(), p.P50.Float64())
	assert.LessOrEqual(t, p.P50.Float64(), p.P75.Float64())
	assert.LessOrEqual(t, p.P75.Float64(), p.P90.Float64())
	assert.Less(t, p.P10.Float64(), p.P90.Float64())
	assert.Equal(t, p.P50, res.MedianEndingBalance)
}

func TestSimulateGoal_Defaults(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)

	SetSeedFunc(func() int64 { return 99 })
	defer SetSeedFunc(nil)

	res, err := pe.SimulateGoal(context.Background(), plan, MonteCarloConfig{Mode: "sideways"})
	require.NoError(t, err)
	assert.Equal(t, DefaultSimulations, res.NumSimulations)
	assert.Equal(t, int64(99), res.Seed)
	assert.Equal(t, domain.ModeCombined, res.Mode)
	assert.Equal(t, "House deposit", res.GoalName)
	assert.True(t, res.TargetAmount.Equal(decimal.NewFromInt(120000)))
}

func TestSimulateGoal_NotComputable(t *testing.T) {
	pe := newTestEngine()
	g := houseGoal()
	g.ExpectedRate = decimal.NewFromInt(-100)
	plan := pe.BuildPlan(g, nil)
	require.False(t, plan.Computable())

	res, err := pe.SimulateGoal(context.Background(), plan, MonteCarloConfig{NumSimulations: 10, Seed: 1})
	require.NoError(t, err)
	assert.False(t, res.SuccessRate.Finite())
	assert.False(t, res.Percentiles.P90.Finite())
}

func TestSimulateGoal_Errors(t *testing.T) {
	pe := newTestEngine()
	plan := pe.BuildPlan(houseGoal(), nil)

	_, err := pe.SimulateGoal(context.Background(), plan, MonteCarloConfig{VolatilityPercent: -1})
	assert.ErrorIs(t, err, ErrNegativeVolatility)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pe.SimulateGoal(ctx, plan, MonteCarloConfig{NumSimulations: 20, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
