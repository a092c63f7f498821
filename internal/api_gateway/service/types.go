package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/domain/transaction"
	"github.com/spendwise-tracker/internal/gateway"
	"github.com/spendwise-tracker/internal/report"
)

// RecentLimit is how many entries the dashboard lists
const RecentLimit = 5

type CreateTransactionInput struct {
	Kind        shared.TransactionKind
	Amount      decimal.Decimal
	Currency    shared.Currency
	Category    string
	Description string
	Date        shared.Date
}

// TransactionList is a filtered listing plus the categories of every entry
type TransactionList struct {
	Transactions []*transaction.Transaction `json:"transactions"`
	Categories   []string                   `json:"categories"`
	Total        int                        `json:"total"`
}

type DashboardReport struct {
	Stats  report.DashboardStats      `json:"stats"`
	Quick  report.QuickStats          `json:"quick_stats"`
	Recent []*transaction.Transaction `json:"recent_transactions"`
}

// YearlyView carries a nil Report when there is no data
type YearlyView struct {
	Report         *report.YearlyReport `json:"report"`
	AvailableYears []int                `json:"available_years"`
}

// LiveDashboard is one push of the dashboard stream
type LiveDashboard struct {
	Dashboard *DashboardReport `json:"dashboard,omitempty"`
	Loading   bool             `json:"loading"`
	Error     string           `json:"error,omitempty"`
}

// LiveSavings is one push of the savings stream
type LiveSavings struct {
	Transactions []*savings.Transaction `json:"transactions"`
	Goals        []GoalView             `json:"goals"`
	Summary      *report.SavingsSummary `json:"summary,omitempty"`
	Loading      bool                   `json:"loading"`
	Error        string                 `json:"error,omitempty"`
}

type DepositInput struct {
	Amount      decimal.Decimal
	Service     shared.CarrierService
	PhoneNumber string
	Description string
}

// DepositResult pairs the gateway outcome with the stored record.
// PayerDisplay is the stored payer rendered with the country prefix.
type DepositResult struct {
	Payment      gateway.Result       `json:"payment"`
	Transaction  *savings.Transaction `json:"transaction"`
	PayerDisplay string               `json:"payer_display"`
}

type GoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     shared.Date
	Category     savings.GoalCategory
	Description  string
}

// GoalView is a goal with its progress percentage
type GoalView struct {
	*savings.Goal
	Progress  decimal.Decimal `json:"progress"`
	Remaining decimal.Decimal `json:"remaining"`
}

// CollectInput is the raw relay request; fields are validated by the service
type CollectInput struct {
	Amount      decimal.Decimal
	Service     string
	Payer       string
	TrxID       string
	Description string
}

// CollectOutput mirrors the upstream outcome in the shape savings clients decode
type CollectOutput struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Status      string              `json:"status"`
	Transaction *gateway.Transaction `json:"transaction"`
	Timestamp   time.Time           `json:"timestamp"`
}

// WebhookInput is an asynchronous status notification
type WebhookInput struct {
	Reference     string
	Status        string
	CorrelationID string
}
