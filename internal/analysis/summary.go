package analysis

import (
	"liquidation-planner/internal/solver"
)

// ScheduleSummary condenses one solve into the numbers used to compare parameter sets.
type ScheduleSummary struct {
	Periods   int
	Inventory int

	// LogCost is log(value[0][Inventory]); +Inf when the cell saturated.
	LogCost float64

	// PeriodsToLiquidate is the first period with zero inventory, or -1 if the
	// trajectory never reaches zero.
	PeriodsToLiquidate int
	// FrontLoad is the fraction of the initial inventory sold in the first transition.
	FrontLoad float64
	MaxTrade  int
	Residual  int

	Overflowed bool
}

// Summarize describes the optimal schedule of a solve.
func Summarize(res *solver.Result) ScheduleSummary {
	s := SummarizeSchedule(res.Problem.Periods, res.Problem.Inventory, res.Trajectory, res.TradeSchedule)
	s.LogCost = res.LogCost()
	s.Overflowed = res.Diagnostics.Overflowed()
	return s
}

// SummarizeSchedule computes the shape statistics of any executed schedule. LogCost and
// Overflowed are left zero; they only exist for solver output.
func SummarizeSchedule(periods, inventory int, traj, trades []int) ScheduleSummary {
	s := ScheduleSummary{
		Periods:            periods,
		Inventory:          inventory,
		PeriodsToLiquidate: -1,
	}
	if len(traj) > 0 {
		s.Residual = traj[len(traj)-1]
	}
	for t, inv := range traj {
		if inv == 0 {
			s.PeriodsToLiquidate = t
			break
		}
	}
	for _, n := range trades {
		if n > s.MaxTrade {
			s.MaxTrade = n
		}
	}
	if len(trades) > 0 && inventory > 0 {
		s.FrontLoad = float64(trades[0]) / float64(inventory)
	}
	return s
}
