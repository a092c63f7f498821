package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendwise-tracker/internal/domain/shared"
)

// Common errors
var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrEmptyOwner      = errors.New("owner id cannot be empty")
	ErrEmptyCategory   = errors.New("category cannot be empty")
	ErrMissingDate     = errors.New("date is required")
	ErrNothingToUpdate = errors.New("no fields to update")
)

// Transaction is a single income or expense entry of one owner
type Transaction struct {
	ID          uuid.UUID              `json:"id"`
	OwnerID     string                 `json:"owner_id"`
	Kind        shared.TransactionKind `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	Currency    shared.Currency        `json:"currency"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Date        shared.Date            `json:"date"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewTransaction validates the input and builds an entry ready to persist.
// An empty currency falls back to shared.DefaultCurrency.
func NewTransaction(ownerID string, kind shared.TransactionKind, amount decimal.Decimal, currency shared.Currency, category, description string, date shared.Date) (*Transaction, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrEmptyOwner
	}
	if !kind.Valid() {
		return nil, shared.ErrInvalidTransactionKind
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = shared.DefaultCurrency
	}
	if !currency.Valid() {
		return nil, shared.ErrInvalidCurrency
	}
	if strings.TrimSpace(category) == "" {
		return nil, ErrEmptyCategory
	}
	if date.IsZero() {
		return nil, ErrMissingDate
	}

	now := time.Now().UTC()
	return &Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Kind:        kind,
		Amount:      amount,
		Currency:    currency,
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(description),
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Patch carries a partial update; nil fields are left untouched
type Patch struct {
	Kind        *shared.TransactionKind
	Amount      *decimal.Decimal
	Currency    *shared.Currency
	Category    *string
	Description *string
	Date        *shared.Date
}

// Validate applies the same rules as NewTransaction to the fields present.
func (p Patch) Validate() error {
	if p.Kind == nil && p.Amount == nil && p.Currency == nil && p.Category == nil && p.Description == nil && p.Date == nil {
		return ErrNothingToUpdate
	}
	if p.Kind != nil && !p.Kind.Valid() {
		return shared.ErrInvalidTransactionKind
	}
	if p.Amount != nil && !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Currency != nil && !p.Currency.Valid() {
		return shared.ErrInvalidCurrency
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return ErrEmptyCategory
	}
	if p.Date != nil && p.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}
