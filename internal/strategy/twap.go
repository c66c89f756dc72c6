package strategy

// TWAPParams spreads the inventory evenly over the first Horizon transitions.
// Horizon <= 0 means every transition.
type TWAPParams struct {
	Horizon int
}

// TWAPStrategy is the time-weighted baseline: sell ceil(inventory / transitions left)
// each transition until the horizon is reached.
type TWAPStrategy struct {
	Params TWAPParams
}

func (s *TWAPStrategy) Name() string { return "twap" }

func (s *TWAPStrategy) Decide(ctx Context) int {
	left := ctx.Remaining
	if h := s.Params.Horizon; h > 0 {
		left = min(h-ctx.Index, ctx.Remaining)
	}
	if left <= 0 || ctx.Inventory <= 0 {
		return 0
	}
	return (ctx.Inventory + left - 1) / left
}
