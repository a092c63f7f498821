package payment

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository persists relay-side collection attempts
type Repository interface {
	Create(ctx context.Context, attempt *Attempt) error
	Update(ctx context.Context, attempt *Attempt) error

	// GetByReference matches either the relay transaction id or the gateway reference.
	GetByReference(ctx context.Context, ref string) (*Attempt, error)

	// UpdateStatusByReference applies an asynchronous status change and
	// returns the updated attempt.
	UpdateStatusByReference(ctx context.Context, reference, status string) (*Attempt, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrAttemptNotFound indicates an unknown transaction id or gateway reference
type ErrAttemptNotFound struct {
	Ref string
}

func (e ErrAttemptNotFound) Error() string {
	return "payment attempt not found: " + e.Ref
}

// Is implements the errors.Is interface for ErrAttemptNotFound
func (e ErrAttemptNotFound) Is(target error) bool {
	t, ok := target.(ErrAttemptNotFound)
	if !ok {
		return false
	}
	if t.Ref == "" {
		return true
	}
	return e.Ref == t.Ref
}

// ErrDuplicateAttempt indicates a reused transaction id
type ErrDuplicateAttempt struct {
	TrxID string
}

func (e ErrDuplicateAttempt) Error() string {
	return "duplicate payment attempt: " + e.TrxID
}
