package payment

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spendwise-tracker/internal/domain/shared"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("amount must be greater than 0")
	ErrMissingFields = errors.New("missing required fields: amount, service, payer")
	ErrInvalidPayer  = errors.New("invalid phone number format: must be 9 digits")
)

// Gateway statuses as reported by the collection provider
const (
	StatusSuccess = "SUCCESS"
	StatusPending = "PENDING"
	StatusFailed  = "FAILED"
)

// Attempt records one collection request forwarded to the gateway
type Attempt struct {
	ID               uuid.UUID             `json:"id"`
	TrxID            string                `json:"trx_id"`
	Amount           int64                 `json:"amount"`
	Service          shared.CarrierService `json:"service"`
	Payer            string                `json:"payer"`
	Description      string                `json:"description"`
	Status           string                `json:"status"`
	GatewayReference string                `json:"gateway_reference,omitempty"`
	Message          string                `json:"message,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// NewAttempt records a request before its gateway outcome is known.
func NewAttempt(trxID string, amount int64, service shared.CarrierService, payer, description string) (*Attempt, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !service.Valid() {
		return nil, shared.ErrInvalidService
	}
	if len(payer) != 9 {
		return nil, ErrInvalidPayer
	}
	now := time.Now().UTC()
	return &Attempt{
		ID:          uuid.New(),
		TrxID:       trxID,
		Amount:      amount,
		Service:     service,
		Payer:       payer,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Settle stores the gateway outcome on the attempt.
func (a *Attempt) Settle(status, reference, message string) {
	a.Status = NormalizeStatus(status)
	if reference != "" {
		a.GatewayReference = reference
	}
	a.Message = message
	a.UpdatedAt = time.Now().UTC()
}

// NormalizeStatus upper-cases a gateway status and maps unknown values to FAILED.
func NormalizeStatus(status string) string {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch s {
	case StatusSuccess, StatusPending, StatusFailed:
		return s
	}
	return StatusFailed
}
