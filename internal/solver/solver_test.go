package solver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidation-planner/internal/model"
)

func referenceProblem() model.Problem {
	return model.Problem{
		Periods:   3,
		Inventory: 2,
		Params: model.ImpactParams{
			Alpha: 1, Beta: 1, Gamma: 0.05, Eta: 0.1, Psi: 0.25, Sigma: 0.3, Tau: 0.5,
		},
	}
}

func TestSolveReferenceScenario(t *testing.T) {
	res, err := Solve(context.Background(), referenceProblem())
	require.NoError(t, err)

	assert.Equal(t, [][]int{{0, 1, 1}, {0, 1, 2}, {0, 1, 2}}, res.Policy.Rows())

	wantValue := [][]float64{
		{1.0, 1.0253151205244289, 1.0794009917505794},
		{1.0, 1.0253151205244289, 1.1051709180756477},
		{1.0, 1.2214027581601699, 2.225540928492468},
	}
	for tt, row := range wantValue {
		for x, want := range row {
			assert.InDelta(t, want, res.Value.At(tt, x), 1e-12, "value[%d][%d]", tt, x)
		}
	}

	assert.Equal(t, []int{2, 0, 0}, res.Trajectory)
	assert.Equal(t, []int{2, 0}, res.TradeSchedule)
	assert.False(t, res.Diagnostics.Overflowed())
	assert.NoError(t, res.OverflowErr())
}

func TestSolveIsDeterministic(t *testing.T) {
	a, err := Solve(context.Background(), referenceProblem())
	require.NoError(t, err)
	b, err := Solve(context.Background(), referenceProblem())
	require.NoError(t, err)

	assert.Equal(t, a.Value.Rows(), b.Value.Rows())
	assert.Equal(t, a.Policy.Rows(), b.Policy.Rows())
	assert.Equal(t, a.Trajectory, b.Trajectory)
}

func TestTerminalLayerMatchesClosedForm(t *testing.T) {
	p := model.Problem{
		Periods:   4,
		Inventory: 12,
		Params:    model.ImpactParams{Alpha: 1.5, Beta: 1, Gamma: 0.05, Eta: 0.02, Psi: 0.3},
	}
	res, err := Solve(context.Background(), p)
	require.NoError(t, err)

	tau := model.DefaultTau
	for x := 0; x <= p.Inventory; x++ {
		fx := float64(x)
		want := math.Exp(fx * (0.02 * math.Pow(fx/tau, 1.5)))
		assert.Equal(t, want, res.Value.At(p.Periods-1, x), "x=%d", x)
		assert.Equal(t, x, res.Policy.At(p.Periods-1, x))
	}
}

func TestTrajectoryProperties(t *testing.T) {
	cases := []model.Problem{
		{Periods: 5, Inventory: 10, Params: model.ImpactParams{Alpha: 1, Beta: 1, Gamma: 0.05, Eta: 0.01, Psi: 0.25}},
		{Periods: 6, Inventory: 20, Params: model.ImpactParams{Alpha: 1, Beta: 1, Gamma: 0.05, Eta: 0.1, Psi: 0.25}},
		{Periods: 4, Inventory: 6, Params: model.ImpactParams{Alpha: 1.5, Beta: 1, Gamma: 0.05, Eta: 0.2, Psi: 0.5}},
		{Periods: 8, Inventory: 30, Params: model.ImpactParams{Alpha: 2, Beta: 1.2, Gamma: 0.01, Eta: 0.001, Psi: 0.1}},
	}
	for _, p := range cases {
		res, err := Solve(context.Background(), p)
		require.NoError(t, err)

		require.Len(t, res.Trajectory, p.Periods)
		require.Len(t, res.TradeSchedule, p.Periods-1)
		assert.Equal(t, p.Inventory, res.Trajectory[0])
		for i, n := range res.TradeSchedule {
			assert.GreaterOrEqual(t, n, 0)
			assert.Equal(t, res.Trajectory[i]-res.Trajectory[i+1], n)
			assert.LessOrEqual(t, res.Trajectory[i+1], res.Trajectory[i])
		}
		for tt := 0; tt < p.Periods; tt++ {
			for x := 0; x <= p.Inventory; x++ {
				n := res.Policy.At(tt, x)
				assert.True(t, n >= 0 && n <= x, "policy[%d][%d]=%d", tt, x, n)
			}
		}
	}
}

func TestValueMonotoneInInventory(t *testing.T) {
	p := model.Problem{
		Periods:   5,
		Inventory: 25,
		Params:    model.ImpactParams{Alpha: 1, Beta: 1, Gamma: 0.05, Eta: 0.05, Psi: 0.25},
	}
	res, err := Solve(context.Background(), p)
	require.NoError(t, err)
	for x := 1; x <= p.Inventory; x++ {
		assert.GreaterOrEqual(t, res.Value.At(0, x), res.Value.At(0, x-1), "x=%d", x)
	}

	// A larger problem agrees with the smaller one on the shared states.
	bigger := p
	bigger.Inventory = 40
	big, err := Solve(context.Background(), bigger)
	require.NoError(t, err)
	for x := 0; x <= p.Inventory; x++ {
		assert.Equal(t, res.Value.At(0, x), big.Value.At(0, x))
	}
}

func TestSinglePeriodLiquidatesEverything(t *testing.T) {
	p := referenceProblem()
	p.Periods = 1
	p.Inventory = 5
	res, err := Solve(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, []int{5}, res.Trajectory)
	assert.Empty(t, res.TradeSchedule)
	assert.Equal(t, 5, res.Policy.At(0, 5))
}

func TestZeroInventory(t *testing.T) {
	p := referenceProblem()
	p.Periods = 5
	p.Inventory = 0
	res, err := Solve(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0, 0, 0}, res.Trajectory)
	assert.Equal(t, []int{0, 0, 0, 0}, res.TradeSchedule)
	assert.Equal(t, 1, res.Value.States())
	for tt := 0; tt < p.Periods; tt++ {
		assert.Equal(t, 1.0, res.Value.At(tt, 0))
	}
}

// Under this Hamiltonian the temporary term vanishes at full liquidation, so a
// larger eta pulls liquidation forward.
func TestEtaSensitivity(t *testing.T) {
	base := model.Problem{
		Periods:   5,
		Inventory: 10,
		Params:    model.ImpactParams{Alpha: 1, Beta: 1, Gamma: 0.05, Psi: 0.25},
	}
	tests := []struct {
		eta  float64
		want []int
	}{
		{0.01, []int{10, 7, 5, 3, 0}},
		{0.1, []int{10, 6, 3, 0, 0}},
		{1, []int{10, 0, 0, 0, 0}},
	}
	for _, tc := range tests {
		p := base
		p.Params.Eta = tc.eta
		res, err := Solve(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Trajectory, "eta=%v", tc.eta)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	p := model.Problem{
		Periods:   7,
		Inventory: 57,
		Params:    model.ImpactParams{Alpha: 1.2, Beta: 1, Gamma: 0.02, Eta: 0.01, Psi: 0.1},
	}
	seq, err := Solve(context.Background(), p)
	require.NoError(t, err)
	for _, w := range []int{2, 3, 8, 100} {
		par, err := Solve(context.Background(), p, WithWorkers(w))
		require.NoError(t, err)
		assert.Equal(t, seq.Value.Rows(), par.Value.Rows(), "workers=%d", w)
		assert.Equal(t, seq.Policy.Rows(), par.Policy.Rows(), "workers=%d", w)
		assert.Equal(t, w, par.Diagnostics.Workers)
	}
}

func TestLogSpaceAgreesWithExpSpace(t *testing.T) {
	p := model.Problem{
		Periods:   6,
		Inventory: 20,
		Params:    model.ImpactParams{Alpha: 1, Beta: 1, Gamma: 0.05, Eta: 0.1, Psi: 0.25},
	}
	exp, err := Solve(context.Background(), p)
	require.NoError(t, err)
	lg, err := Solve(context.Background(), p, WithLogSpace())
	require.NoError(t, err)

	assert.True(t, lg.LogSpace)
	assert.Equal(t, exp.Trajectory, lg.Trajectory)
	assert.Equal(t, []int{20, 13, 8, 4, 0, 0}, lg.Trajectory)
	for tt := 0; tt < p.Periods; tt++ {
		for x := 0; x <= p.Inventory; x++ {
			assert.InEpsilon(t, math.Log(exp.Value.At(tt, x))+1, lg.Value.At(tt, x)+1, 1e-9)
		}
	}
	assert.InDelta(t, exp.LogCost(), lg.LogCost(), 1e-9)
}

func TestOverflowSaturatesAndReports(t *testing.T) {
	p := model.Problem{
		Periods:   10,
		Inventory: 200,
		Params:    model.ImpactParams{Alpha: 2, Beta: 1, Gamma: 0.5, Eta: 2, Psi: 1},
	}
	res, err := Solve(context.Background(), p)
	require.NoError(t, err)

	assert.True(t, res.Diagnostics.Overflowed())
	assert.Equal(t, p.Periods-1, res.Diagnostics.FirstOverflowPeriod)
	assert.True(t, math.IsInf(res.Value.At(0, p.Inventory), 1))
	assert.True(t, math.IsInf(res.LogCost(), 1))
	assert.ErrorIs(t, res.OverflowErr(), model.ErrNumericOverflow)

	// The trajectory is still well formed.
	assert.Equal(t, p.Inventory, res.Trajectory[0])
	for i := 1; i < len(res.Trajectory); i++ {
		assert.LessOrEqual(t, res.Trajectory[i], res.Trajectory[i-1])
	}

	strict, err := Solve(context.Background(), p, WithStrictOverflow())
	require.ErrorIs(t, err, model.ErrNumericOverflow)
	require.NotNil(t, strict)

	lg, err := Solve(context.Background(), p, WithLogSpace(), WithStrictOverflow())
	require.NoError(t, err)
	assert.False(t, lg.Diagnostics.Overflowed())
	assert.False(t, math.IsInf(lg.LogCost(), 0))
}

func TestHugeAlphaNeverStoresNaN(t *testing.T) {
	p := model.Problem{
		Periods:   3,
		Inventory: 10,
		Params:    model.ImpactParams{Alpha: 300, Beta: 1, Gamma: 0.05, Eta: 0.1, Psi: 0.25},
	}
	tests := []struct {
		name          string
		opts          []Option
		overflowCells int
	}{
		// Terminal exp(x*eta*(2x)^300) is +Inf for every x > 0.
		{"exp space", nil, 10},
		// (2x)^300 itself is beyond float64 from x = 6.
		{"log space", []Option{WithLogSpace()}, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Solve(context.Background(), p, tc.opts...)
			require.NoError(t, err)

			for tt := 0; tt < p.Periods; tt++ {
				for x := 0; x <= p.Inventory; x++ {
					assert.False(t, math.IsNaN(res.Value.At(tt, x)), "value[%d][%d] is NaN", tt, x)
				}
			}
			assert.Equal(t, tc.overflowCells, res.Diagnostics.OverflowCells)
			assert.Equal(t, p.Periods-1, res.Diagnostics.FirstOverflowPeriod)
			assert.Equal(t, []int{10, 0, 0}, res.Trajectory)
			// Selling everything at once costs psi*X*gamma*(X/tau) = 2.5.
			assert.InDelta(t, 2.5, res.LogCost(), 1e-9)
		})
	}
}

func TestReplayFromPeriodZero(t *testing.T) {
	p := model.Problem{
		Periods:   5,
		Inventory: 10,
		Params:    model.ImpactParams{Alpha: 1, Beta: 1, Gamma: 0.05, Eta: 0.01, Psi: 0.25},
	}
	res, err := Solve(context.Background(), p, WithReplayFromPeriodZero())
	require.NoError(t, err)

	assert.Equal(t, res.Policy.At(0, p.Inventory), res.TradeSchedule[0])
	inv := p.Inventory
	for tt := 1; tt < p.Periods; tt++ {
		inv -= res.Policy.At(tt-1, inv)
		assert.Equal(t, inv, res.Trajectory[tt])
	}
}

func TestFullLiquidationWinsTies(t *testing.T) {
	s := &dp{
		params: model.ImpactParams{Alpha: 1, Beta: 1, Gamma: 0.05, Eta: 0.1, Psi: 0.25, Sigma: 0.3, Tau: 0.5},
		value:  newGrid[float64](2, 3),
		policy: newGrid[int](2, 3),
	}
	inf := math.Inf(1)

	// Every continuation saturated: all candidates tie at +Inf, the incumbent n=x stays.
	for x := 0; x < 3; x++ {
		s.value.set(1, x, inf)
	}
	s.fill(0, 0, 3)
	assert.Equal(t, []int{0, 1, 2}, s.policy.Row(0))

	// A single finite continuation is strictly better than the saturated incumbent.
	s.value.set(1, 1, 1)
	s.fill(0, 2, 3)
	assert.Equal(t, 1, s.policy.At(0, 2))
	assert.False(t, math.IsInf(s.value.At(0, 2), 0))
}

func TestSolveRejectsInvalidProblem(t *testing.T) {
	good := referenceProblem()
	tests := []struct {
		name  string
		mut   func(p *model.Problem)
		field string
	}{
		{"zero periods", func(p *model.Problem) { p.Periods = 0 }, "periods"},
		{"negative inventory", func(p *model.Problem) { p.Inventory = -1 }, "inventory"},
		{"alpha below one", func(p *model.Problem) { p.Params.Alpha = 0.5 }, "alpha"},
		{"beta below one", func(p *model.Problem) { p.Params.Beta = 0.9 }, "beta"},
		{"zero gamma", func(p *model.Problem) { p.Params.Gamma = 0 }, "gamma"},
		{"negative eta", func(p *model.Problem) { p.Params.Eta = -0.1 }, "eta"},
		{"zero psi", func(p *model.Problem) { p.Params.Psi = 0 }, "psi"},
		{"negative sigma", func(p *model.Problem) { p.Params.Sigma = -1 }, "sigma"},
		{"negative tau", func(p *model.Problem) { p.Params.Tau = -0.5 }, "tau"},
		{"nan eta", func(p *model.Problem) { p.Params.Eta = math.NaN() }, "eta"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := good
			tc.mut(&p)
			res, err := Solve(context.Background(), p)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, model.ErrInvalidParameter)
			var pe *model.ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.field, pe.Field)
		})
	}
}

func TestSolveDefaultsSigmaAndTau(t *testing.T) {
	p := referenceProblem()
	p.Params.Sigma = 0
	p.Params.Tau = 0
	res, err := Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSigma, res.Problem.Params.Sigma)
	assert.Equal(t, model.DefaultTau, res.Problem.Params.Tau)
	assert.Equal(t, []int{2, 0, 0}, res.Trajectory)
}

func TestSolveHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := referenceProblem()
	_, err := Solve(ctx, p)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Solve(ctx, p, WithWorkers(4))
	assert.ErrorIs(t, err, context.Canceled)
}
