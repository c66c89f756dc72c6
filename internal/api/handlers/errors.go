package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"liquidation-planner/internal/api/models"
	"liquidation-planner/internal/model"
)

var (
	errPresetNotFound = errors.New("preset not found")
	errSolveNotFound  = errors.New("solve not found or expired")
)

// Error codes returned in models.ErrorDetail.Code.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeNotFound         = "NOT_FOUND"
	CodeSolveCancelled   = "SOLVE_CANCELLED"
	CodeNumericOverflow  = "NUMERIC_OVERFLOW"
	CodeInternal         = "INTERNAL_ERROR"
)

func respondError(c *gin.Context, status int, code, msg string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: msg,
			Details: details,
		},
	})
}

// respondErr maps domain errors onto the HTTP error envelope.
func respondErr(c *gin.Context, err error) {
	var pe *model.ParamError
	switch {
	case errors.As(err, &pe):
		respondError(c, http.StatusBadRequest, CodeInvalidParameter, err.Error(), map[string]interface{}{
			"field":  pe.Field,
			"reason": pe.Reason,
		})
	case errors.Is(err, model.ErrInvalidParameter):
		respondError(c, http.StatusBadRequest, CodeInvalidParameter, err.Error(), nil)
	case errors.Is(err, errPresetNotFound), errors.Is(err, errSolveNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, CodeSolveCancelled, err.Error(), nil)
	case errors.Is(err, model.ErrNumericOverflow):
		respondError(c, http.StatusUnprocessableEntity, CodeNumericOverflow, err.Error(), map[string]interface{}{
			"hint": "set options.log_space to solve in additive log-cost space",
		})
	default:
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), nil)
	}
}
