package strategy

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"liquidation-planner/internal/model"
	"liquidation-planner/internal/solver"
)

// OptimalStrategy replays the trade schedule produced by backward induction.
// The plan is computed up front; Decide only looks it up.
type OptimalStrategy struct {
	plan   []int
	result *solver.Result
}

type OptimalParams struct {
	// Workers parallelizes the inventory scan of each period.
	Workers int
	// LogSpace avoids overflow for large problems.
	LogSpace             bool
	StrictOverflow       bool
	ReplayFromPeriodZero bool
	Logger               *zerolog.Logger
}

func (p OptimalParams) SolveOptions() []solver.Option {
	opts := []solver.Option{solver.WithWorkers(p.Workers)}
	if p.LogSpace {
		opts = append(opts, solver.WithLogSpace())
	}
	if p.StrictOverflow {
		opts = append(opts, solver.WithStrictOverflow())
	}
	if p.ReplayFromPeriodZero {
		opts = append(opts, solver.WithReplayFromPeriodZero())
	}
	if p.Logger != nil {
		opts = append(opts, solver.WithLogger(*p.Logger))
	}
	return opts
}

func NewOptimalStrategy(ctx context.Context, problem model.Problem, cfg OptimalParams) (*OptimalStrategy, error) {
	res, err := solver.Solve(ctx, problem, cfg.SolveOptions()...)
	if err != nil {
		return nil, fmt.Errorf("optimal strategy: %w", err)
	}
	return FromResult(res), nil
}

// FromResult wraps an existing solve.
func FromResult(res *solver.Result) *OptimalStrategy {
	return &OptimalStrategy{plan: res.TradeSchedule, result: res}
}

func (s *OptimalStrategy) Name() string { return "optimal" }

func (s *OptimalStrategy) Result() *solver.Result { return s.result }

func (s *OptimalStrategy) Decide(ctx Context) int {
	if ctx.Index < 0 || ctx.Index >= len(s.plan) {
		return 0
	}
	return s.plan[ctx.Index]
}
