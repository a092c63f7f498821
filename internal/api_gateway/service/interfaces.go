package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spendwise-tracker/internal/domain/payment"
	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/domain/transaction"
	"github.com/spendwise-tracker/internal/gateway"
	"github.com/spendwise-tracker/internal/platform/mesomb"
	"github.com/spendwise-tracker/internal/report"
)

// TransactionService defines the interface for ledger entry operations
type TransactionService interface {
	// Create validates and stores a new income or expense entry
	Create(ctx context.Context, ownerID string, in CreateTransactionInput) (*transaction.Transaction, error)

	// List returns the owner's entries matching the criteria, newest first,
	// with the categories of the unfiltered list
	List(ctx context.Context, ownerID string, criteria report.Criteria) (*TransactionList, error)

	// Update applies a partial update
	// Returns ErrTransactionNotFound if the entry doesn't exist for the owner
	Update(ctx context.Context, ownerID string, id uuid.UUID, patch transaction.Patch) (*transaction.Transaction, error)

	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

// ReportService defines the interface for dashboard and yearly reports
type ReportService interface {
	Dashboard(ctx context.Context, ownerID string) (*DashboardReport, error)

	// Yearly returns a nil Report when the owner has no entries
	Yearly(ctx context.Context, ownerID string, year int) (*YearlyView, error)

	// Watch streams a recomputed dashboard after every store change until
	// ctx is canceled. The channel is closed once the subscription is released.
	Watch(ctx context.Context, ownerID string) (<-chan LiveDashboard, error)
}

// SavingsService defines the interface for mobile-money savings and goals
type SavingsService interface {
	// Deposit collects the amount through the payment gateway and records
	// the outcome, including failures
	Deposit(ctx context.Context, ownerID string, in DepositInput) (*DepositResult, error)
	ListTransactions(ctx context.Context, ownerID string) ([]*savings.Transaction, error)
	Summary(ctx context.Context, ownerID string) (*report.SavingsSummary, error)

	// Watch streams the savings list, goals and a recomputed summary after
	// every change to either store until ctx is canceled
	Watch(ctx context.Context, ownerID string) (<-chan LiveSavings, error)

	CreateGoal(ctx context.Context, ownerID string, in GoalInput) (*savings.Goal, error)
	ListGoals(ctx context.Context, ownerID string) ([]GoalView, error)
	UpdateGoal(ctx context.Context, ownerID string, id uuid.UUID, patch savings.GoalPatch) (*savings.Goal, error)
	DeleteGoal(ctx context.Context, ownerID string, id uuid.UUID) error

	// Contribute adds to a goal's current amount without exceeding its target
	Contribute(ctx context.Context, ownerID string, id uuid.UUID, amount decimal.Decimal) (*savings.Goal, error)
}

// RelayService defines the interface for the payment relay endpoints
type RelayService interface {
	Collect(ctx context.Context, in CollectInput) (*CollectOutput, error)

	// Status returns the recorded attempt for a relay transaction id or
	// gateway reference
	Status(ctx context.Context, transactionID string) (*payment.Attempt, error)

	// HandleWebhook records an asynchronous status change together with
	// its outbox event
	HandleWebhook(ctx context.Context, in WebhookInput) error

	MesombConfigured() bool
}

// HealthService reports dependency readiness
type HealthService interface {
	Check(ctx context.Context) map[string]string
}

// PaymentGateway collects funds for savings deposits
type PaymentGateway interface {
	Collect(ctx context.Context, req gateway.CollectRequest) gateway.Result
}

// PayerValidator checks payer numbers against the carrier numbering plan
type PayerValidator interface {
	IsValidPayerNumber(number string, service shared.CarrierService) bool
	FormatPayerNumber(number string) string
}

// CollectionProvider is the upstream mobile-money API behind the relay
type CollectionProvider interface {
	Collect(ctx context.Context, p mesomb.CollectParams) (*mesomb.CollectResponse, error)
	Configured() bool
}

// TxExecutor runs fn inside one relational transaction
type TxExecutor interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Pinger is a dependency whose reachability is reported by health checks
type Pinger interface {
	Ping(ctx context.Context) error
}
