package components

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/status_processor/service"
)

// Validation errors
var (
	ErrMissingEventID   = errors.New("event id is required")
	ErrMissingReference = errors.New("transaction or gateway reference is required")
	ErrMissingStatus    = errors.New("status is required")
)

type EventValidatorImpl struct {
	logger *slog.Logger
}

func NewEventValidator(logger *slog.Logger) service.EventValidator {
	return &EventValidatorImpl{logger: logger}
}

// Validate checks that the event identifies a record and carries a status
func (v *EventValidatorImpl) Validate(_ context.Context, event *shared.PaymentStatusEvent) error {
	logger := v.logger
	if event.CorrelationID != "" {
		logger = v.logger.With("correlation_id", event.CorrelationID)
	}

	if _, err := uuid.Parse(event.EventID); err != nil {
		logger.Error("Invalid event id", "event_id", event.EventID)
		return ErrMissingEventID
	}

	if strings.TrimSpace(event.GatewayReference) == "" && strings.TrimSpace(event.TransactionRef) == "" {
		logger.Error("Status event without reference", "event_id", event.EventID)
		return ErrMissingReference
	}

	if strings.TrimSpace(event.Status) == "" {
		logger.Error("Status event without status", "event_id", event.EventID)
		return ErrMissingStatus
	}

	return nil
}
