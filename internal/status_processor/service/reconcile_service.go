package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spendwise-tracker/internal/domain/payment"
	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
)

type ReconcileServiceImpl struct {
	validator EventValidator
	applier   StatusApplier
	logger    *slog.Logger
}

func NewReconcileService(
	validator EventValidator,
	applier StatusApplier,
	logger *slog.Logger,
) ReconcileService {
	return &ReconcileServiceImpl{
		validator: validator,
		applier:   applier,
		logger:    logger,
	}
}

// Reconcile applies a gateway status change to the matching savings
// transaction. Only pending records move; settled or unknown records are
// acknowledged without changes.
func (s *ReconcileServiceImpl) Reconcile(ctx context.Context, event *shared.PaymentStatusEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Reconciling payment status",
		"event_id", event.EventID,
		"gateway_reference", event.GatewayReference,
		"status", event.Status,
	)

	if err := s.validator.Validate(ctx, event); err != nil {
		logger.Error("Status event validation failed", "event_id", event.EventID, "error", err)
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	gatewayStatus := payment.NormalizeStatus(event.Status)
	status := savings.StatusFromGateway(gatewayStatus == payment.StatusSuccess, gatewayStatus)
	if !status.Terminal() {
		logger.Info("Status event is not terminal, nothing to apply", "event_id", event.EventID, "status", gatewayStatus)
		return nil
	}

	applied, err := s.applier.Apply(ctx, event, status)
	if err != nil {
		logger.Error("Failed to apply payment status", "event_id", event.EventID, "error", err)
		return fmt.Errorf("failed to reconcile event %s: %w", event.EventID, err)
	}
	if !applied {
		logger.Info("Payment status left unchanged", "event_id", event.EventID, "status", status)
		return nil
	}

	logger.Info("Savings transaction reconciled", "event_id", event.EventID, "status", status)
	return nil
}
