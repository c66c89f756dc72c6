package strategy

type Context struct {
	// Index is the transition number, 0..T-2.
	Index int
	// Inventory is the remaining inventory before this transition.
	Inventory int
	// Remaining counts transitions left including this one.
	Remaining int
}

// Strategy decides how many shares to sell in one transition.
// Returned values are clipped to [0, Inventory] by the execution engine.
type Strategy interface {
	Name() string
	Decide(ctx Context) int
}
