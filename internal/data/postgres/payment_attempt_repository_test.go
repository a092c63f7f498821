package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-tracker/internal/domain/payment"
	"github.com/spendwise-tracker/internal/domain/shared"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var attemptRowColumns = []string{"id", "trx_id", "amount", "service", "payer", "description", "status", "gateway_reference", "message", "created_at", "updated_at"}

func attemptRow(a *payment.Attempt) *pgxmock.Rows {
	return pgxmock.NewRows(attemptRowColumns).
		AddRow(a.ID, a.TrxID, a.Amount, a.Service, a.Payer, a.Description, a.Status, a.GatewayReference, a.Message, a.CreatedAt, a.UpdatedAt)
}

func newAttempt() *payment.Attempt {
	now := time.Now().UTC()
	return &payment.Attempt{
		ID:          uuid.New(),
		TrxID:       "savings_1715774400000",
		Amount:      5000,
		Service:     shared.CarrierServiceMTN,
		Payer:       "677550203",
		Description: "Savings deposit",
		Status:      payment.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestPaymentAttemptRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PaymentAttemptRepository{querier: mock, logger: newTestLogger()}
	a := newAttempt()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO payment_attempts").
			WithArgs(a.ID, a.TrxID, a.Amount, a.Service, a.Payer, a.Description, a.Status, nil, nil, a.CreatedAt, a.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, repo.Create(ctx, a))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate trx id", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO payment_attempts").
			WithArgs(a.ID, a.TrxID, a.Amount, a.Service, a.Payer, a.Description, a.Status, nil, nil, a.CreatedAt, a.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, a)
		var dup payment.ErrDuplicateAttempt
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, a.TrxID, dup.TrxID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectExec("INSERT INTO payment_attempts").
			WithArgs(a.ID, a.TrxID, a.Amount, a.Service, a.Payer, a.Description, a.Status, nil, nil, a.CreatedAt, a.UpdatedAt).
			WillReturnError(dbErr)

		err := repo.Create(ctx, a)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to create payment attempt")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentAttemptRepository_Update(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PaymentAttemptRepository{querier: mock, logger: newTestLogger()}
	a := newAttempt()
	a.Settle("SUCCESS", "pk_42", "Payment processed successfully")

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE payment_attempts").
			WithArgs(payment.StatusSuccess, "pk_42", "Payment processed successfully", a.UpdatedAt, a.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.Update(ctx, a))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("UPDATE payment_attempts").
			WithArgs(payment.StatusSuccess, "pk_42", "Payment processed successfully", a.UpdatedAt, a.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.Update(ctx, a), payment.ErrAttemptNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentAttemptRepository_GetByReference(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PaymentAttemptRepository{querier: mock, logger: newTestLogger()}
	a := newAttempt()
	a.GatewayReference = "pk_42"

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("FROM payment_attempts").WithArgs("pk_42").WillReturnRows(attemptRow(a))

		got, err := repo.GetByReference(ctx, "pk_42")
		require.NoError(t, err)
		assert.Equal(t, a, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("FROM payment_attempts").WithArgs("pk_unknown").WillReturnError(pgx.ErrNoRows)

		got, err := repo.GetByReference(ctx, "pk_unknown")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, payment.ErrAttemptNotFound{Ref: "pk_unknown"})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentAttemptRepository_UpdateStatusByReference(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PaymentAttemptRepository{querier: mock, logger: newTestLogger()}
	a := newAttempt()
	a.GatewayReference = "pk_42"
	a.Status = payment.StatusFailed

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE payment_attempts").
			WithArgs(payment.StatusFailed, "pk_42").
			WillReturnRows(attemptRow(a))

		got, err := repo.UpdateStatusByReference(ctx, "pk_42", payment.StatusFailed)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, got.Status)
		assert.Equal(t, a.TrxID, got.TrxID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown reference", func(t *testing.T) {
		mock.ExpectQuery("UPDATE payment_attempts").
			WithArgs(payment.StatusFailed, "pk_404").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.UpdateStatusByReference(ctx, "pk_404", payment.StatusFailed)
		assert.ErrorIs(t, err, payment.ErrAttemptNotFound{Ref: "pk_404"})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentAttemptRepository_WithTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PaymentAttemptRepository{querier: mock, logger: newTestLogger()}

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	txRepo, ok := repo.WithTx(tx).(*PaymentAttemptRepository)
	require.True(t, ok)
	assert.Equal(t, tx, txRepo.querier)
}
