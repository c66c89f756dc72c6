package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidation-planner/internal/model"
	"liquidation-planner/internal/solver"
)

func TestSummarizeReference(t *testing.T) {
	res, err := solver.Solve(context.Background(), model.Problem{
		Periods:   3,
		Inventory: 2,
		Params:    model.ImpactParams{Alpha: 1, Beta: 1, Gamma: 0.05, Eta: 0.1, Psi: 0.25},
	})
	require.NoError(t, err)

	s := Summarize(res)
	assert.Equal(t, 1, s.PeriodsToLiquidate)
	assert.Equal(t, 1.0, s.FrontLoad)
	assert.Equal(t, 2, s.MaxTrade)
	assert.Equal(t, 0, s.Residual)
	assert.InDelta(t, math.Log(1.0794009917505794), s.LogCost, 1e-12)
	assert.False(t, s.Overflowed)
}

func TestSummarizeDegenerate(t *testing.T) {
	res, err := solver.Solve(context.Background(), model.Problem{
		Periods:   1,
		Inventory: 5,
		Params:    model.ImpactParams{Alpha: 1, Beta: 1, Gamma: 0.05, Eta: 0.1, Psi: 0.25},
	})
	require.NoError(t, err)

	s := Summarize(res)
	assert.Equal(t, -1, s.PeriodsToLiquidate)
	assert.Equal(t, 5, s.Residual)
	assert.Equal(t, 0.0, s.FrontLoad)
}

func TestRankByCost(t *testing.T) {
	ranked := RankByCost(map[string]ScheduleSummary{
		"b":        {LogCost: 2},
		"a":        {LogCost: 2},
		"cheap":    {LogCost: 0.5},
		"overflow": {LogCost: math.Inf(1), Overflowed: true},
		"nan":      {LogCost: math.NaN(), Overflowed: true},
	})
	names := []string{}
	for _, r := range ranked {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"cheap", "a", "b", "nan", "overflow"}, names)
}

func TestSummarizeSchedule(t *testing.T) {
	s := SummarizeSchedule(5, 10, []int{10, 7, 4, 2, 0}, []int{3, 3, 2, 2})
	assert.Equal(t, 4, s.PeriodsToLiquidate)
	assert.InDelta(t, 0.3, s.FrontLoad, 1e-12)
	assert.Equal(t, 3, s.MaxTrade)
	assert.Equal(t, 0, s.Residual)
	assert.Zero(t, s.LogCost)
	assert.False(t, s.Overflowed)

	s = SummarizeSchedule(3, 0, []int{0, 0, 0}, []int{0, 0})
	assert.Equal(t, 0, s.PeriodsToLiquidate)
	assert.Zero(t, s.FrontLoad)
}
