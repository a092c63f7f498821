package savings

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
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrEmptyOwner         = errors.New("owner id cannot be empty")
	ErrEmptyPhoneNumber   = errors.New("phone number cannot be empty")
	ErrInvalidTransition  = errors.New("savings status transition not allowed")
	ErrEmptyGoalName      = errors.New("goal name cannot be empty")
	ErrInvalidTarget      = errors.New("target amount must be positive")
	ErrInvalidCategory    = errors.New("invalid goal category")
	ErrMissingDeadline    = errors.New("deadline is required")
	ErrExceedsTarget      = errors.New("contribution would exceed goal target")
	ErrInactiveGoal       = errors.New("goal is not active")
	ErrNothingToUpdate    = errors.New("no fields to update")
	ErrNegativeCurrent    = errors.New("current amount cannot be negative")
	ErrInvalidContributed = errors.New("contribution must be positive")
)

// Gateway status values relevant to reconciliation.
const (
	GatewayStatusSuccess = "SUCCESS"
	GatewayStatusPending = "PENDING"
	GatewayStatusFailed  = "FAILED"
	GatewayStatusError   = "ERROR"
)

// Transaction is a mobile-money savings movement of one owner
type Transaction struct {
	ID          uuid.UUID             `json:"id"`
	OwnerID     string                `json:"owner_id"`
	Amount      decimal.Decimal       `json:"amount"`
	Kind        shared.SavingsKind    `json:"type"`
	Service     shared.CarrierService `json:"service"`
	PhoneNumber string                `json:"phone_number"`
	Status      shared.SavingsStatus  `json:"status"`
	ExternalRef string                `json:"transaction_id,omitempty"`
	Description string                `json:"description,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// NewTransaction builds a savings record reflecting a completed gateway call.
func NewTransaction(ownerID string, kind shared.SavingsKind, amount decimal.Decimal, service shared.CarrierService, phone string, status shared.SavingsStatus, externalRef, description string) (*Transaction, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrEmptyOwner
	}
	if !kind.Valid() {
		return nil, shared.ErrInvalidSavingsKind
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !service.Valid() {
		return nil, shared.ErrInvalidService
	}
	if strings.TrimSpace(phone) == "" {
		return nil, ErrEmptyPhoneNumber
	}
	if !status.Valid() {
		return nil, shared.ErrInvalidSavingsStatus
	}

	now := time.Now().UTC()
	return &Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Amount:      amount,
		Kind:        kind,
		Service:     service,
		PhoneNumber: phone,
		Status:      status,
		ExternalRef: externalRef,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Transition moves a pending record to a terminal status.
func (t *Transaction) Transition(to shared.SavingsStatus) error {
	if t.Status.Terminal() || !to.Terminal() {
		return ErrInvalidTransition
	}
	t.Status = to
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// StatusFromGateway maps a normalized gateway outcome onto a savings status.
func StatusFromGateway(success bool, gatewayStatus string) shared.SavingsStatus {
	switch strings.ToUpper(gatewayStatus) {
	case GatewayStatusSuccess:
		if success {
			return shared.SavingsStatusSuccess
		}
		return shared.SavingsStatusFailed
	case GatewayStatusPending:
		return shared.SavingsStatusPending
	default:
		return shared.SavingsStatusFailed
	}
}
