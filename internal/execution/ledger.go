package execution

import "liquidation-planner/internal/model"

// LedgerRow is one transition of an executed schedule.
// This is the primary artifact for "what happened" in a run.
type LedgerRow struct {
	Index  int
	Period int

	Action model.Action

	InventoryStart  int
	RequestedShares int
	Shares          int
	InventoryEnd    int

	// Rate is the trading rate Shares / tau.
	Rate float64

	PermanentCost float64
	TemporaryCost float64
	RiskCost      float64
	Hamiltonian   float64
	CumCost       float64
}

type Result struct {
	Strategy string
	Ledger   []LedgerRow

	// RunningCost sums the Hamiltonians of all transitions.
	RunningCost float64
	// ResidualInventory is what is left after the last transition; it is liquidated at
	// the terminal period for TerminalCost.
	ResidualInventory int
	TerminalCost      float64
	TotalCost         float64
}

func (r *Result) Trajectory() []int {
	out := make([]int, 0, len(r.Ledger)+1)
	if len(r.Ledger) == 0 {
		return append(out, r.ResidualInventory)
	}
	out = append(out, r.Ledger[0].InventoryStart)
	for _, row := range r.Ledger {
		out = append(out, row.InventoryEnd)
	}
	return out
}
