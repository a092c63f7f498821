package components

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/status_processor/service"
)

type StatusApplierImpl struct {
	savingsRepo savings.TransactionRepository
	logger      *slog.Logger
}

func NewStatusApplier(savingsRepo savings.TransactionRepository, logger *slog.Logger) service.StatusApplier {
	return &StatusApplierImpl{
		savingsRepo: savingsRepo,
		logger:      logger,
	}
}

// Apply tries the gateway reference first and then the relay transaction
// id, since savings records store whichever the gateway returned.
func (a *StatusApplierImpl) Apply(ctx context.Context, event *shared.PaymentStatusEvent, status shared.SavingsStatus) (bool, error) {
	logger := a.logger
	if event.CorrelationID != "" {
		logger = a.logger.With("correlation_id", event.CorrelationID)
	}

	for _, ref := range references(event) {
		applied, err := a.savingsRepo.UpdateStatusIfPending(ctx, ref, status)
		if errors.Is(err, savings.ErrSavingsTransactionNotFound{}) {
			continue
		}
		if err != nil {
			return false, err
		}

		if applied {
			logger.Info("Savings transaction settled", "reference", ref, "status", status)
		} else {
			logger.Info("Savings transaction already settled (idempotency)", "reference", ref)
		}
		return applied, nil
	}

	logger.Warn("No savings transaction matches status event",
		"event_id", event.EventID,
		"gateway_reference", event.GatewayReference,
		"transaction_ref", event.TransactionRef,
	)
	return false, nil
}

func references(event *shared.PaymentStatusEvent) []string {
	refs := make([]string, 0, 2)
	if event.GatewayReference != "" {
		refs = append(refs, event.GatewayReference)
	}
	if event.TransactionRef != "" && event.TransactionRef != event.GatewayReference {
		refs = append(refs, event.TransactionRef)
	}
	return refs
}
