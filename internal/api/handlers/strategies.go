package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"liquidation-planner/internal/api/models"
)

// StrategyHandler handles strategy-related requests
type StrategyHandler struct{}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	strategies := []models.StrategyInfo{
		{
			Name:        "optimal",
			Description: "Backward induction over (period, remaining inventory). Executes the trade schedule that minimizes expected impact cost plus risk.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "workers",
					Type:        "int",
					Description: "Goroutines used for the inventory scan of each period (options.workers)",
					Default:     1,
				},
				{
					Name:        "log_space",
					Type:        "bool",
					Description: "Store additive log-costs instead of exponentiated costs; avoids overflow on large problems (options.log_space)",
					Default:     false,
				},
				{
					Name:        "replay_from_period_zero",
					Type:        "bool",
					Description: "Apply the period-0 policy to the first transition instead of the period-1 policy",
					Default:     false,
				},
			},
		},
		{
			Name:        "twap",
			Description: "Time-weighted baseline. Sells the remaining inventory evenly over the remaining transitions.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "horizon",
					Type:        "int",
					Description: "Finish selling within this many transitions (0 = use every transition)",
					Default:     0,
				},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}
