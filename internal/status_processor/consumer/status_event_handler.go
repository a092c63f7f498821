package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/platform/messaging/producers"
	"github.com/spendwise-tracker/internal/status_processor/service"
)

// StatusEventHandler handles payment status events from the broker
type StatusEventHandler struct {
	reconcileService service.ReconcileService
	producer         producers.DeadLetterPublisher
	logger           *slog.Logger
}

func NewStatusEventHandler(
	logger *slog.Logger,
	reconcileService service.ReconcileService,
	producer producers.DeadLetterPublisher,
) *StatusEventHandler {
	return &StatusEventHandler{
		reconcileService: reconcileService,
		producer:         producer,
		logger:           logger,
	}
}

// HandleMessage decodes and reconciles one event. Unprocessable messages
// are dead-lettered and acknowledged; other failures are returned so the
// broker redelivers.
func (h *StatusEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.PaymentStatusEvent
	if err := json.Unmarshal(value, &event); err != nil {
		h.logger.Error("Failed to unmarshal payment status event", "error", err, "message_key", string(key))
		return h.deadLetter(ctx, key, value, fmt.Sprintf("malformed status event: %s", err.Error()), err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received payment status event",
		"event_id", event.EventID,
		"gateway_reference", event.GatewayReference,
		"status", event.Status,
	)

	if err := h.reconcileService.Reconcile(ctx, &event); err != nil {
		if errors.Is(err, service.ErrInvalidEvent) {
			return h.deadLetter(ctx, key, value, err.Error(), err)
		}
		logger.Error("Failed to reconcile payment status", "event_id", event.EventID, "error", err)
		return fmt.Errorf("reconciling event %s failed: %w", event.EventID, err)
	}

	logger.Info("Successfully handled payment status event", "event_id", event.EventID)
	return nil
}

func (h *StatusEventHandler) deadLetter(ctx context.Context, key, value []byte, reason string, cause error) error {
	if h.producer != nil {
		dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason)
		if dlqErr == nil {
			h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", reason)
			return nil
		}
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", cause,
			"message_key", string(key),
		)
	}
	return fmt.Errorf("unprocessable message %s: %w", string(key), cause)
}
