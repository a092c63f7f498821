package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/spendwise-tracker/internal/api_gateway/middleware"
	"github.com/spendwise-tracker/internal/api_gateway/service"
	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/transaction"
)

// respondServiceError maps service and domain errors onto the envelope
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	var verr service.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondBadRequest(c, verr.Error())
	case errors.Is(err, transaction.ErrTransactionNotFound{}):
		RespondNotFound(c, "Transaction not found")
	case errors.Is(err, savings.ErrGoalNotFound{}):
		RespondNotFound(c, "Goal not found")
	case errors.Is(err, savings.ErrExceedsTarget), errors.Is(err, savings.ErrInactiveGoal):
		RespondConflict(c, err.Error())
	default:
		logger.Error("Request failed",
			"path", c.FullPath(),
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		_ = c.Error(err)
		RespondInternalError(c)
	}
}
