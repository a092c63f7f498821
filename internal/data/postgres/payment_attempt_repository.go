package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spendwise-tracker/internal/domain/payment"
	"github.com/spendwise-tracker/internal/platform/persistence"
)

const uniqueViolation = "23505"

const attemptColumns = `id, trx_id, amount, service, payer, description, status,
		COALESCE(gateway_reference, ''), COALESCE(message, ''), created_at, updated_at`

// PaymentAttemptRepository implements payment.Repository for PostgreSQL
type PaymentAttemptRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPaymentAttemptRepository creates a new PostgreSQL payment attempt repository
func NewPaymentAttemptRepository(logger *slog.Logger, db *persistence.PostgresDB) payment.Repository {
	return &PaymentAttemptRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *PaymentAttemptRepository) WithTx(tx pgx.Tx) payment.Repository {
	return &PaymentAttemptRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// nullable stores empty strings as NULL so the unique reference index
// ignores attempts without a gateway reference.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanAttempt(row pgx.Row) (*payment.Attempt, error) {
	var a payment.Attempt
	err := row.Scan(
		&a.ID,
		&a.TrxID,
		&a.Amount,
		&a.Service,
		&a.Payer,
		&a.Description,
		&a.Status,
		&a.GatewayReference,
		&a.Message,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create records a new attempt
func (r *PaymentAttemptRepository) Create(ctx context.Context, a *payment.Attempt) error {
	query := `
		INSERT INTO payment_attempts (id, trx_id, amount, service, payer, description, status, gateway_reference, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		a.ID,
		a.TrxID,
		a.Amount,
		a.Service,
		a.Payer,
		a.Description,
		a.Status,
		nullable(a.GatewayReference),
		nullable(a.Message),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return payment.ErrDuplicateAttempt{TrxID: a.TrxID}
		}
		r.logger.Error("Failed to create payment attempt", "trx_id", a.TrxID, "error", err)
		return fmt.Errorf("failed to create payment attempt: %w", err)
	}

	return nil
}

// Update stores the gateway outcome of an attempt
func (r *PaymentAttemptRepository) Update(ctx context.Context, a *payment.Attempt) error {
	query := `
		UPDATE payment_attempts
		SET status = $1, gateway_reference = $2, message = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		a.Status,
		nullable(a.GatewayReference),
		nullable(a.Message),
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update payment attempt", "id", a.ID, "trx_id", a.TrxID, "error", err)
		return fmt.Errorf("failed to update payment attempt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return payment.ErrAttemptNotFound{Ref: a.TrxID}
	}

	return nil
}

// GetByReference finds an attempt by relay transaction id or gateway reference
func (r *PaymentAttemptRepository) GetByReference(ctx context.Context, ref string) (*payment.Attempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM payment_attempts
		WHERE trx_id = $1 OR gateway_reference = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	a, err := scanAttempt(r.querier.QueryRow(ctx, query, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrAttemptNotFound{Ref: ref}
		}
		r.logger.Error("Failed to get payment attempt", "reference", ref, "error", err)
		return nil, fmt.Errorf("failed to get payment attempt: %w", err)
	}

	return a, nil
}

// UpdateStatusByReference applies an asynchronous status change reported by the gateway
func (r *PaymentAttemptRepository) UpdateStatusByReference(ctx context.Context, reference, status string) (*payment.Attempt, error) {
	query := `
		UPDATE payment_attempts
		SET status = $1, updated_at = NOW()
		WHERE gateway_reference = $2 OR trx_id = $2
		RETURNING ` + attemptColumns

	a, err := scanAttempt(r.querier.QueryRow(ctx, query, status, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrAttemptNotFound{Ref: reference}
		}
		r.logger.Error("Failed to update payment attempt status",
			"reference", reference,
			"status", status,
			"error", err,
		)
		return nil, fmt.Errorf("failed to update payment attempt status: %w", err)
	}

	return a, nil
}
