package handler

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/spendwise-tracker/internal/api_gateway/service"
	"github.com/spendwise-tracker/internal/domain/payment"
	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/transaction"
	"github.com/spendwise-tracker/internal/report"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Create(ctx context.Context, ownerID string, in service.CreateTransactionInput) (*transaction.Transaction, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) List(ctx context.Context, ownerID string, criteria report.Criteria) (*service.TransactionList, error) {
	args := m.Called(ctx, ownerID, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransactionList), args.Error(1)
}

func (m *MockTransactionService) Update(ctx context.Context, ownerID string, id uuid.UUID, patch transaction.Patch) (*transaction.Transaction, error) {
	args := m.Called(ctx, ownerID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Dashboard(ctx context.Context, ownerID string) (*service.DashboardReport, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DashboardReport), args.Error(1)
}

func (m *MockReportService) Yearly(ctx context.Context, ownerID string, year int) (*service.YearlyView, error) {
	args := m.Called(ctx, ownerID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.YearlyView), args.Error(1)
}

func (m *MockReportService) Watch(ctx context.Context, ownerID string) (<-chan service.LiveDashboard, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan service.LiveDashboard), args.Error(1)
}

type MockSavingsService struct {
	mock.Mock
}

func (m *MockSavingsService) Deposit(ctx context.Context, ownerID string, in service.DepositInput) (*service.DepositResult, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DepositResult), args.Error(1)
}

func (m *MockSavingsService) ListTransactions(ctx context.Context, ownerID string) ([]*savings.Transaction, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*savings.Transaction), args.Error(1)
}

func (m *MockSavingsService) Summary(ctx context.Context, ownerID string) (*report.SavingsSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.SavingsSummary), args.Error(1)
}

func (m *MockSavingsService) Watch(ctx context.Context, ownerID string) (<-chan service.LiveSavings, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan service.LiveSavings), args.Error(1)
}

func (m *MockSavingsService) CreateGoal(ctx context.Context, ownerID string, in service.GoalInput) (*savings.Goal, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*savings.Goal), args.Error(1)
}

func (m *MockSavingsService) ListGoals(ctx context.Context, ownerID string) ([]service.GoalView, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.GoalView), args.Error(1)
}

func (m *MockSavingsService) UpdateGoal(ctx context.Context, ownerID string, id uuid.UUID, patch savings.GoalPatch) (*savings.Goal, error) {
	args := m.Called(ctx, ownerID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*savings.Goal), args.Error(1)
}

func (m *MockSavingsService) DeleteGoal(ctx context.Context, ownerID string, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockSavingsService) Contribute(ctx context.Context, ownerID string, id uuid.UUID, amount decimal.Decimal) (*savings.Goal, error) {
	args := m.Called(ctx, ownerID, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*savings.Goal), args.Error(1)
}

type MockRelayService struct {
	mock.Mock
}

func (m *MockRelayService) Collect(ctx context.Context, in service.CollectInput) (*service.CollectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CollectOutput), args.Error(1)
}

func (m *MockRelayService) Status(ctx context.Context, transactionID string) (*payment.Attempt, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Attempt), args.Error(1)
}

func (m *MockRelayService) HandleWebhook(ctx context.Context, in service.WebhookInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockRelayService) MesombConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) map[string]string {
	args := m.Called(ctx)
	return args.Get(0).(map[string]string)
}
