package strategy

import (
	"context"
	"fmt"

	"liquidation-planner/internal/model"
)

// Names lists the strategies Build understands.
var Names = []string{"optimal", "twap"}

// Build constructs a strategy by name. params carries the strategy's own knobs as
// decoded from YAML or JSON; solve carries the solver options used by "optimal".
func Build(ctx context.Context, name string, params map[string]any, problem model.Problem, solve OptimalParams) (Strategy, error) {
	switch name {
	case "", "optimal":
		return NewOptimalStrategy(ctx, problem, solve)
	case "twap":
		return &TWAPStrategy{Params: TWAPParams{
			Horizon: int(mustNum(params, "horizon", 0)),
		}}, nil
	default:
		return nil, fmt.Errorf("unsupported strategy: %q", name)
	}
}

func mustNum(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case int:
			return float64(x)
		}
	}
	return def
}
