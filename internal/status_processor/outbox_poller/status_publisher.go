package outbox_poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spendwise-tracker/internal/domain/outbox"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/platform/messaging/producers"
)

// StatusPublisher forwards outbox messages to the status event broker
type StatusPublisher interface {
	Publish(ctx context.Context, message *outbox.Message) error
}

// StatusPublisherImpl implements StatusPublisher
type StatusPublisherImpl struct {
	outboxRepo outbox.Repository
	publisher  producers.MessagePublisher
	logger     *slog.Logger
}

func NewStatusPublisher(
	outboxRepo outbox.Repository,
	publisher producers.MessagePublisher,
	logger *slog.Logger,
) StatusPublisher {
	return &StatusPublisherImpl{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Publish sends the stored event keyed by its reference and removes the
// row once the broker has accepted it. A payload that is not a status
// event is parked as FAILED_TO_PUBLISH.
func (p *StatusPublisherImpl) Publish(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetStatusEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal status event from outbox payload",
			"outbox_id", message.ID, "reference", message.Reference, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if event.CorrelationID != "" {
		logger = p.logger.With("correlation_id", event.CorrelationID)
	}

	key := message.Reference
	if key == "" {
		key = event.TransactionRef
	}

	if err := p.publisher.Publish(ctx, key, json.RawMessage(message.Payload)); err != nil {
		logger.Error("Failed to publish status event", "outbox_id", message.ID, "event_id", event.EventID, "error", err)
		return fmt.Errorf("failed to publish status event %s: %w", event.EventID, err)
	}

	if err := p.outboxRepo.Delete(ctx, message.ID); err != nil {
		logger.Error("Status event published but outbox row not deleted",
			"outbox_id", message.ID, "event_id", event.EventID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); updateErr != nil {
			return fmt.Errorf("event %s published, but failed to clear outbox %d: %w", event.EventID, message.ID, updateErr)
		}
	}

	logger.Info("Status event published", "outbox_id", message.ID, "event_id", event.EventID, "reference", key)
	return nil
}
