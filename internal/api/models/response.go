package models

import (
	"encoding/json"
	"math"
)

// Number is a float64 whose non-finite values encode as null. Saturated value-table cells
// and log-costs are +Inf, which encoding/json cannot represent.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// SolveResponse represents the response from a solve
type SolveResponse struct {
	ID            string          `json:"id,omitempty"`
	Status        string          `json:"status"`
	Strategy      string          `json:"strategy"`
	Cached        bool            `json:"cached,omitempty"`
	Summary       SolveSummary    `json:"summary"`
	Trajectory    []int           `json:"trajectory"`
	TradeSchedule []int           `json:"trade_schedule"`
	Diagnostics   DiagnosticsInfo `json:"diagnostics"`
	ValueTable    [][]Number      `json:"value_table,omitempty"`
	PolicyTable   [][]int         `json:"policy_table,omitempty"`
	Ledger        []LedgerRow     `json:"ledger,omitempty"`
}

// SolveSummary describes the executed schedule. OptimalLogCost is the solver's expected
// log-cost of the optimal schedule, whichever strategy was executed.
type SolveSummary struct {
	Periods            int     `json:"periods"`
	Inventory          int     `json:"inventory"`
	OptimalLogCost     Number  `json:"optimal_log_cost"`
	PeriodsToLiquidate int     `json:"periods_to_liquidate"`
	FrontLoad          float64 `json:"front_load"`
	MaxTrade           int     `json:"max_trade"`
	Residual           int     `json:"residual"`
	RunningCost        float64 `json:"running_cost"`
	TerminalCost       float64 `json:"terminal_cost"`
	ExecutionCost      float64 `json:"execution_cost"`
}

// DiagnosticsInfo reports solver health
type DiagnosticsInfo struct {
	Cells               int      `json:"cells"`
	OverflowCells       int      `json:"overflow_cells"`
	FirstOverflowPeriod int      `json:"first_overflow_period"`
	Workers             int      `json:"workers"`
	ElapsedMs           float64  `json:"elapsed_ms"`
	LogSpace            bool     `json:"log_space"`
	Warnings            []string `json:"warnings,omitempty"`
}

// LedgerRow represents one transition in the execution ledger
type LedgerRow struct {
	Index           int     `json:"index"`
	Period          int     `json:"period"`
	Action          string  `json:"action"` // "SELL", "HOLD", "LIQUIDATE"
	InventoryStart  int     `json:"inventory_start"`
	RequestedShares int     `json:"requested_shares"`
	Shares          int     `json:"shares"`
	InventoryEnd    int     `json:"inventory_end"`
	Rate            float64 `json:"rate"`
	PermanentCost   float64 `json:"permanent_cost"`
	TemporaryCost   float64 `json:"temporary_cost"`
	RiskCost        float64 `json:"risk_cost"`
	Hamiltonian     float64 `json:"hamiltonian"`
	CumCost         float64 `json:"cum_cost"`
}

// LedgerResponse is returned by the ledger lookup of a cached solve
type LedgerResponse struct {
	ID                string      `json:"id"`
	Strategy          string      `json:"strategy"`
	ResidualInventory int         `json:"residual_inventory"`
	TerminalCost      float64     `json:"terminal_cost"`
	TotalCost         float64     `json:"total_cost"`
	Ledger            []LedgerRow `json:"ledger"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
	Skipped    []SkippedVariation `json:"skipped,omitempty"`
}

// ComparisonResult contains results for one variation, ordered by cost
type ComparisonResult struct {
	Rank          int          `json:"rank"`
	Name          string       `json:"name"`
	Summary       SolveSummary `json:"summary"`
	Trajectory    []int        `json:"trajectory"`
	TradeSchedule []int        `json:"trade_schedule"`
	Overflowed    bool         `json:"overflowed"`
}

// SkippedVariation names a variation that could not be solved
type SkippedVariation struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// PresetInfo represents information about a parameter preset
type PresetInfo struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	File        string       `json:"file"`
	Params      ImpactParams `json:"params"`
}

// StrategyInfo represents information about a strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "bool"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
