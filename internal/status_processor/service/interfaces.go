package service

import (
	"context"
	"errors"

	"github.com/spendwise-tracker/internal/domain/shared"
)

// ErrInvalidEvent marks a status event that can never be applied and
// should be dead-lettered instead of retried.
var ErrInvalidEvent = errors.New("invalid payment status event")

// ReconcileService defines the interface for applying payment status events.
type ReconcileService interface {
	Reconcile(ctx context.Context, event *shared.PaymentStatusEvent) error
}

// EventValidator validates status events before they are applied
type EventValidator interface {
	Validate(ctx context.Context, event *shared.PaymentStatusEvent) error
}

// StatusApplier moves the savings transaction referenced by an event to a
// terminal status
type StatusApplier interface {
	// Apply reports whether a pending record was found and transitioned.
	Apply(ctx context.Context, event *shared.PaymentStatusEvent, status shared.SavingsStatus) (bool, error)
}
