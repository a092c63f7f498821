package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/spendwise-tracker/internal/domain/shared"
)

// Repository manages owner-scoped ledger entry persistence. Every
// operation filters on ownerID; there is no cross-owner access.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*Transaction, error)
	Update(ctx context.Context, ownerID string, id uuid.UUID, patch Patch) (*Transaction, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error

	// ListByOwner returns entries newest date first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Transaction, error)

	// Subscribe delivers the full owner list on start and after every change.
	Subscribe(ctx context.Context, ownerID string, onSnapshot func([]*Transaction), onError func(error)) (shared.Subscription, error)
}

// ErrTransactionNotFound indicates a missing or foreign entry
type ErrTransactionNotFound struct {
	ID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
