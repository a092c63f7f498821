package handler

import (
	"github.com/shopspring/decimal"

	"github.com/spendwise-tracker/internal/domain/shared"
)

// CreateTransactionRequest represents a request to record an income or expense
type CreateTransactionRequest struct {
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Date        shared.Date     `json:"date"`
}

// UpdateTransactionRequest carries only the fields to change
type UpdateTransactionRequest struct {
	Type        *string          `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Date        *shared.Date     `json:"date"`
}

// TransactionFilterParams represents the listing filters
type TransactionFilterParams struct {
	Type     string `form:"type"`
	Category string `form:"category"`
	Range    string `form:"range"`
	Search   string `form:"q"`
}

// YearlyParams selects the report year; zero means the current year
type YearlyParams struct {
	Year int `form:"year" binding:"omitempty,min=1"`
}

// DepositRequest represents a mobile-money savings deposit
type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Service     string          `json:"service" binding:"required"`
	PhoneNumber string          `json:"phone_number" binding:"required"`
	Description string          `json:"description"`
}

// CreateGoalRequest represents a new savings goal
type CreateGoalRequest struct {
	Name         string          `json:"name" binding:"required"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	Deadline     shared.Date     `json:"deadline"`
	Category     string          `json:"category" binding:"required"`
	Description  string          `json:"description"`
}

// UpdateGoalRequest carries only the fields to change
type UpdateGoalRequest struct {
	Name          *string          `json:"name"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Deadline      *shared.Date     `json:"deadline"`
	Category      *string          `json:"category"`
	Description   *string          `json:"description"`
	IsActive      *bool            `json:"is_active"`
}

// ContributionRequest adds to a goal's saved amount
type ContributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CollectRequest is the relay's collection payload
type CollectRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Service     string          `json:"service"`
	Payer       string          `json:"payer"`
	TrxID       string          `json:"trxID"`
	Description string          `json:"description"`
}

// WebhookTransaction is the transaction object of a provider notification
type WebhookTransaction struct {
	PK        string `json:"pk"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// WebhookRequest accepts the flat and nested notification layouts
type WebhookRequest struct {
	Status      string              `json:"status"`
	PK          string              `json:"pk"`
	Reference   string              `json:"reference"`
	Transaction *WebhookTransaction `json:"transaction"`
}

// reference picks the provider key first, then the merchant reference
func (w WebhookRequest) reference() string {
	if w.Transaction != nil {
		if w.Transaction.PK != "" {
			return w.Transaction.PK
		}
		if w.Transaction.Reference != "" {
			return w.Transaction.Reference
		}
	}
	if w.PK != "" {
		return w.PK
	}
	return w.Reference
}

func (w WebhookRequest) status() string {
	if w.Status != "" {
		return w.Status
	}
	if w.Transaction != nil {
		return w.Transaction.Status
	}
	return ""
}
