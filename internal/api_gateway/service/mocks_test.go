package service

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/spendwise-tracker/internal/domain/outbox"
	"github.com/spendwise-tracker/internal/domain/payment"
	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/domain/transaction"
	"github.com/spendwise-tracker/internal/gateway"
	"github.com/spendwise-tracker/internal/platform/mesomb"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, ownerID string, id uuid.UUID, patch transaction.Patch) (*transaction.Transaction, error) {
	args := m.Called(ctx, ownerID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Subscribe(ctx context.Context, ownerID string, onSnapshot func([]*transaction.Transaction), onError func(error)) (shared.Subscription, error) {
	args := m.Called(ctx, ownerID, onSnapshot, onError)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(shared.Subscription), args.Error(1)
}

type MockSavingsTransactionRepository struct {
	mock.Mock
}

func (m *MockSavingsTransactionRepository) Create(ctx context.Context, tx *savings.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSavingsTransactionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*savings.Transaction, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*savings.Transaction), args.Error(1)
}

func (m *MockSavingsTransactionRepository) GetByReference(ctx context.Context, externalRef string) (*savings.Transaction, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*savings.Transaction), args.Error(1)
}

func (m *MockSavingsTransactionRepository) UpdateStatusIfPending(ctx context.Context, externalRef string, status shared.SavingsStatus) (bool, error) {
	args := m.Called(ctx, externalRef, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockSavingsTransactionRepository) Subscribe(ctx context.Context, ownerID string, onSnapshot func([]*savings.Transaction), onError func(error)) (shared.Subscription, error) {
	args := m.Called(ctx, ownerID, onSnapshot, onError)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(shared.Subscription), args.Error(1)
}

type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *savings.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*savings.Goal, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*savings.Goal), args.Error(1)
}

func (m *MockGoalRepository) Update(ctx context.Context, goal *savings.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockGoalRepository) ListByOwner(ctx context.Context, ownerID string) ([]*savings.Goal, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*savings.Goal), args.Error(1)
}

func (m *MockGoalRepository) AddContribution(ctx context.Context, ownerID string, id uuid.UUID, amount decimal.Decimal) (*savings.Goal, error) {
	args := m.Called(ctx, ownerID, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*savings.Goal), args.Error(1)
}

func (m *MockGoalRepository) Subscribe(ctx context.Context, ownerID string, onSnapshot func([]*savings.Goal), onError func(error)) (shared.Subscription, error) {
	args := m.Called(ctx, ownerID, onSnapshot, onError)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(shared.Subscription), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Collect(ctx context.Context, req gateway.CollectRequest) gateway.Result {
	args := m.Called(ctx, req)
	return args.Get(0).(gateway.Result)
}

type MockCollectionProvider struct {
	mock.Mock
}

func (m *MockCollectionProvider) Collect(ctx context.Context, p mesomb.CollectParams) (*mesomb.CollectResponse, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mesomb.CollectResponse), args.Error(1)
}

func (m *MockCollectionProvider) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, attempt *payment.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, attempt *payment.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByReference(ctx context.Context, ref string) (*payment.Attempt, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Attempt), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatusByReference(ctx context.Context, reference, status string) (*payment.Attempt, error) {
	args := m.Called(ctx, reference, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Attempt), args.Error(1)
}

func (m *MockPaymentRepository) WithTx(pgx.Tx) payment.Repository {
	return m
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) WithTx(pgx.Tx) outbox.Repository {
	return m
}

// inlineTx runs the callback without a database and reports beginErr
// instead when set
type inlineTx struct {
	beginErr error
	calls    int
}

func (e *inlineTx) ExecuteTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	e.calls++
	if e.beginErr != nil {
		return e.beginErr
	}
	return fn(nil)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type fakeSubscription struct {
	once   sync.Once
	closed chan struct{}
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{closed: make(chan struct{})}
}

func (s *fakeSubscription) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}
