package execution

import (
	"fmt"

	"liquidation-planner/internal/impact"
	"liquidation-planner/internal/model"
	"liquidation-planner/internal/strategy"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run replays strat over the T-1 transitions of problem, scoring each one with the
// Hamiltonian. Whatever inventory remains is charged the terminal cost.
func (e *Engine) Run(problem model.Problem, strat strategy.Strategy) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("strategy is nil")
	}
	problem.Params = problem.Params.WithDefaults()
	if err := problem.Validate(); err != nil {
		return nil, err
	}

	p := problem.Params
	transitions := problem.Periods - 1
	ledger := make([]LedgerRow, 0, transitions)
	inventory := problem.Inventory
	cum := 0.0

	for idx := 0; idx < transitions; idx++ {
		req := strat.Decide(strategy.Context{
			Index:     idx,
			Inventory: inventory,
			Remaining: transitions - idx,
		})
		shares := clip(req, inventory)

		terms := impact.Breakdown(float64(inventory), float64(shares), p)
		cum += terms.Total

		ledger = append(ledger, LedgerRow{
			Index:  idx,
			Period: idx + 1,

			Action: model.ActionFromTrade(inventory, shares),

			InventoryStart:  inventory,
			RequestedShares: req,
			Shares:          shares,
			InventoryEnd:    inventory - shares,

			Rate: float64(shares) / p.Tau,

			PermanentCost: terms.Permanent,
			TemporaryCost: terms.Temporary,
			RiskCost:      terms.Risk,
			Hamiltonian:   terms.Total,
			CumCost:       cum,
		})
		inventory -= shares
	}

	terminal := impact.TerminalCost(float64(inventory), p)
	return &Result{
		Strategy:          strat.Name(),
		Ledger:            ledger,
		RunningCost:       cum,
		ResidualInventory: inventory,
		TerminalCost:      terminal,
		TotalCost:         cum + terminal,
	}, nil
}

func clip(n, inventory int) int {
	if n < 0 {
		return 0
	}
	if n > inventory {
		return inventory
	}
	return n
}
