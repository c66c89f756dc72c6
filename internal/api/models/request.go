package models

// SolveRequest represents the request body for solving a liquidation problem
type SolveRequest struct {
	// Preset names a file in the preset directory (without .yaml). Explicit params override it.
	Preset    string         `json:"preset,omitempty"`
	Periods   int            `json:"periods"`
	Inventory int            `json:"inventory"`
	Params    ImpactParams   `json:"params"`
	Strategy  StrategyConfig `json:"strategy,omitempty"`
	Options   SolveOptions   `json:"options,omitempty"`
}

// ImpactParams defines the market impact model. Zero fields take the preset value, then
// the documented default (sigma 0.3, tau 0.5).
type ImpactParams struct {
	Alpha float64 `json:"alpha,omitempty"`
	Beta  float64 `json:"beta,omitempty"`
	Gamma float64 `json:"gamma,omitempty"`
	Eta   float64 `json:"eta,omitempty"`
	Psi   float64 `json:"psi,omitempty"`
	Sigma float64 `json:"sigma,omitempty"`
	Tau   float64 `json:"tau,omitempty"`
}

// StrategyConfig selects which strategy is executed against the problem
type StrategyConfig struct {
	Name   string                 `json:"name,omitempty" binding:"omitempty,oneof=optimal twap"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// SolveOptions contains optional solver parameters
type SolveOptions struct {
	// Workers is capped at the server's solve worker limit.
	Workers              int  `json:"workers,omitempty" binding:"gte=0"`
	LogSpace             bool `json:"log_space,omitempty"`
	StrictOverflow       bool `json:"strict_overflow,omitempty"`
	ReplayFromPeriodZero bool `json:"replay_from_period_zero,omitempty"`
	IncludeTables        bool `json:"include_tables,omitempty"`
	IncludeLedger        bool `json:"include_ledger,omitempty"`
}

// CompareRequest represents a request to compare parameter variations against a base problem
type CompareRequest struct {
	Base       SolveRequest `json:"base"`
	Variations []Variation  `json:"variations" binding:"required,min=1,dive"`
}

// Variation overrides parts of the base request. Periods and Inventory override when
// present (inventory 0 included); zero Params fields keep the base value, since every
// impact parameter must be positive.
type Variation struct {
	Name      string       `json:"name" binding:"required"`
	Periods   *int         `json:"periods,omitempty"`
	Inventory *int         `json:"inventory,omitempty"`
	Params    ImpactParams `json:"params,omitempty"`
}
