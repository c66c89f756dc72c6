// Package solver computes optimal liquidation schedules by backward induction over a
// discretized (period x remaining inventory) grid.
//
// The recursion works in exponentiated cost space:
//
//	value[T-1][x] = exp(x * h(x/tau))
//	value[t][x]   = min_{0<=n<=x} value[t+1][x-n] * exp(H(x, n))
//
// so the total cost along a path is a product of per-period multipliers. Cells whose
// product exceeds float64 range saturate to +Inf, which still orders as "worse than
// everything"; saturated cells are counted in Diagnostics. Log-space solves store the
// additive exponent instead and saturate only when a single period's cost itself
// exceeds float64 range (very large alpha or beta).
package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"liquidation-planner/internal/impact"
	"liquidation-planner/internal/model"
)

// Result holds the tables and the extracted schedule of one Solve call.
type Result struct {
	Problem model.Problem

	// Value is exp-space cost, or additive log-cost when LogSpace is set.
	Value  *Grid[float64]
	Policy *Grid[int]

	// Trajectory is remaining inventory after each period; Trajectory[0] = Inventory.
	Trajectory []int
	// TradeSchedule[i] = Trajectory[i] - Trajectory[i+1].
	TradeSchedule []int

	LogSpace    bool
	Diagnostics Diagnostics
}

type Diagnostics struct {
	Cells         int
	OverflowCells int
	// FirstOverflowPeriod is the largest t holding a saturated cell (the first one the
	// backward pass hit), or -1.
	FirstOverflowPeriod int
	Workers             int
	Elapsed             time.Duration
}

func (d Diagnostics) Overflowed() bool { return d.OverflowCells > 0 }

// OverflowErr returns a wrapped ErrNumericOverflow when any cell saturated.
func (r *Result) OverflowErr() error {
	if !r.Diagnostics.Overflowed() {
		return nil
	}
	return fmt.Errorf("%w: %d of %d cells saturated (first at period %d)",
		model.ErrNumericOverflow, r.Diagnostics.OverflowCells, r.Diagnostics.Cells, r.Diagnostics.FirstOverflowPeriod)
}

// LogCost is the log of value[0][Inventory], comparable across exp- and log-space solves.
// +Inf when the cell saturated.
func (r *Result) LogCost() float64 {
	v := r.Value.At(0, r.Problem.Inventory)
	if r.LogSpace {
		return v
	}
	return math.Log(v)
}

// Solve runs backward induction for p. Zero Sigma/Tau take the model defaults.
// The context is checked before every period; parallel chunks also stop early.
func Solve(ctx context.Context, p model.Problem, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p.Params = p.Params.WithDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	T := p.Periods
	states := p.Inventory + 1

	s := &dp{
		params:   p.Params,
		logSpace: o.logSpace,
		value:    newGrid[float64](T, states),
		policy:   newGrid[int](T, states),
	}

	o.log.Debug().
		Int("periods", T).
		Int("inventory", p.Inventory).
		Int("workers", o.workers).
		Bool("log_space", o.logSpace).
		Msg("solve started")

	s.terminal(T - 1)
	for t := T - 2; t >= 0; t-- {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("solve cancelled at period %d: %w", t, err)
		}
		if err := s.step(ctx, t, o.workers); err != nil {
			return nil, fmt.Errorf("solve cancelled at period %d: %w", t, err)
		}
	}

	res := &Result{
		Problem:  p,
		Value:    s.value,
		Policy:   s.policy,
		LogSpace: o.logSpace,
	}
	res.Trajectory, res.TradeSchedule = replay(s.policy, p.Inventory, o.replayFromPeriod)
	res.Diagnostics = diagnose(s.value)
	res.Diagnostics.Workers = o.workers
	res.Diagnostics.Elapsed = time.Since(start)

	if res.Diagnostics.Overflowed() {
		o.log.Warn().
			Int("overflow_cells", res.Diagnostics.OverflowCells).
			Int("first_overflow_period", res.Diagnostics.FirstOverflowPeriod).
			Msg("exponentiated cost saturated")
		if o.strictOverflow {
			return res, res.OverflowErr()
		}
	}

	o.log.Debug().
		Ints("trajectory", res.Trajectory).
		Dur("elapsed", res.Diagnostics.Elapsed).
		Msg("solve finished")
	return res, nil
}

type dp struct {
	params   model.ImpactParams
	logSpace bool
	value    *Grid[float64]
	policy   *Grid[int]
}

// terminal liquidates everything left in the last period.
func (s *dp) terminal(t int) {
	for x := 0; x < s.value.States(); x++ {
		c := impact.TerminalCost(float64(x), s.params)
		if !s.logSpace {
			c = math.Exp(c)
		}
		if math.IsNaN(c) {
			c = math.Inf(1)
		}
		s.value.set(t, x, c)
		s.policy.set(t, x, x)
	}
}

// step fills period t from the already complete period t+1.
func (s *dp) step(ctx context.Context, t, workers int) error {
	states := s.value.States()
	if workers < 2 || states < 2 {
		s.fill(t, 0, states)
		return nil
	}

	chunk := (states + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < states; lo += chunk {
		lo, hi := lo, min(lo+chunk, states)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.fill(t, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

// fill computes cells [lo, hi) of period t. Each cell is independent of the others
// in the same period.
func (s *dp) fill(t, lo, hi int) {
	next := s.value.row(t + 1)
	for x := lo; x < hi; x++ {
		fx := float64(x)

		// Selling everything is the incumbent, so it wins ties.
		best := s.combine(next[0], impact.Hamiltonian(fx, fx, s.params))
		bestN := x
		for n := 0; n < x; n++ {
			v := s.combine(next[x-n], impact.Hamiltonian(fx, float64(n), s.params))
			if v < best {
				best = v
				bestN = n
			}
		}
		s.value.set(t, x, best)
		s.policy.set(t, x, bestN)
	}
}

// combine saturates NaN to +Inf so every stored cell stays ordered.
func (s *dp) combine(next, h float64) float64 {
	var v float64
	if s.logSpace {
		v = next + h
	} else {
		v = next * math.Exp(h)
	}
	if math.IsNaN(v) {
		return math.Inf(1)
	}
	return v
}

// replay follows the policy forward from the initial inventory. Transition t (1..T-1)
// applies policy[t-1+from]; the default from=1 leaves policy[0] unexercised.
func replay(policy *Grid[int], inventory, from int) (trajectory, trades []int) {
	T := policy.Periods()
	trajectory = make([]int, T)
	trades = make([]int, T-1)
	trajectory[0] = inventory
	for t := 1; t < T; t++ {
		n := policy.At(t-1+from, trajectory[t-1])
		trades[t-1] = n
		trajectory[t] = trajectory[t-1] - n
	}
	return trajectory, trades
}

func diagnose(value *Grid[float64]) Diagnostics {
	d := Diagnostics{
		Cells:               value.Periods() * value.States(),
		FirstOverflowPeriod: -1,
	}
	for t := value.Periods() - 1; t >= 0; t-- {
		for _, v := range value.row(t) {
			if math.IsInf(v, 1) || math.IsNaN(v) {
				d.OverflowCells++
				if d.FirstOverflowPeriod < 0 {
					d.FirstOverflowPeriod = t
				}
			}
		}
	}
	return d
}
