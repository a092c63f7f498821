package savings

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendwise-tracker/internal/domain/shared"
)

// TransactionRepository manages owner-scoped savings movements
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error

	// ListByOwner returns records most recently created first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Transaction, error)
	GetByReference(ctx context.Context, externalRef string) (*Transaction, error)

	// UpdateStatusIfPending applies a terminal status only to a pending record.
	// It reports false when the record had already settled.
	UpdateStatusIfPending(ctx context.Context, externalRef string, status shared.SavingsStatus) (bool, error)
	Subscribe(ctx context.Context, ownerID string, onSnapshot func([]*Transaction), onError func(error)) (shared.Subscription, error)
}

// GoalRepository manages owner-scoped savings goals
type GoalRepository interface {
	Create(ctx context.Context, goal *Goal) error
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*Goal, error)
	Update(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Goal, error)

	// AddContribution atomically increments the current amount of an active
	// goal as long as the result stays within its target.
	AddContribution(ctx context.Context, ownerID string, id uuid.UUID, amount decimal.Decimal) (*Goal, error)
	Subscribe(ctx context.Context, ownerID string, onSnapshot func([]*Goal), onError func(error)) (shared.Subscription, error)
}

// ErrSavingsTransactionNotFound indicates an unknown external reference
type ErrSavingsTransactionNotFound struct {
	Reference string
}

func (e ErrSavingsTransactionNotFound) Error() string {
	return "savings transaction not found: " + e.Reference
}

// Is implements the errors.Is interface for ErrSavingsTransactionNotFound
func (e ErrSavingsTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrSavingsTransactionNotFound)
	if !ok {
		return false
	}
	if t.Reference == "" {
		return true
	}
	return e.Reference == t.Reference
}

// ErrGoalNotFound indicates a missing or foreign goal
type ErrGoalNotFound struct {
	ID uuid.UUID
}

func (e ErrGoalNotFound) Error() string {
	return "savings goal not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrGoalNotFound
func (e ErrGoalNotFound) Is(target error) bool {
	t, ok := target.(ErrGoalNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
