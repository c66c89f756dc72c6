package model

// Action is a human-friendly label for one transition of a schedule.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionHold      Action = "HOLD"
	ActionSell      Action = "SELL"
	ActionLiquidate Action = "LIQUIDATE"
)

// ActionFromTrade classifies selling shares out of inventory.
func ActionFromTrade(inventory, shares int) Action {
	switch {
	case shares <= 0:
		return ActionHold
	case shares >= inventory:
		return ActionLiquidate
	default:
		return ActionSell
	}
}
