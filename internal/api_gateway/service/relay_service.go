package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spendwise-tracker/internal/domain/outbox"
	"github.com/spendwise-tracker/internal/domain/payment"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/gateway"
	"github.com/spendwise-tracker/internal/mobilemoney"
	"github.com/spendwise-tracker/internal/platform/mesomb"
)

const defaultRelayDescription = "SpendWise payment"

// Relay validation messages are part of the public contract
var (
	ErrRelayMissingFields  = errors.New("Missing required fields: amount, service, payer")
	ErrRelayInvalidAmount  = errors.New("Amount must be greater than 0")
	ErrRelayInvalidService = errors.New("Invalid service. Must be one of: MTN, ORANGE, MOOV")
	ErrRelayInvalidPayer   = errors.New("Invalid phone number format. Must be 9 digits")
)

// RelayServiceImpl implements the RelayService interface
type RelayServiceImpl struct {
	provider   CollectionProvider
	attempts   payment.Repository
	outboxRepo outbox.Repository
	txExecutor TxExecutor
	now        func() time.Time
	logger     *slog.Logger
}

func NewRelayService(
	logger *slog.Logger,
	provider CollectionProvider,
	attempts payment.Repository,
	outboxRepo outbox.Repository,
	txExecutor TxExecutor,
) RelayService {
	return &RelayServiceImpl{
		provider:   provider,
		attempts:   attempts,
		outboxRepo: outboxRepo,
		txExecutor: txExecutor,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *RelayServiceImpl) MesombConfigured() bool {
	return s.provider.Configured()
}

func validateCollect(in CollectInput) (shared.CarrierService, string, error) {
	if in.Amount.IsZero() || in.Service == "" || in.Payer == "" {
		return "", "", invalid(ErrRelayMissingFields)
	}
	if !in.Amount.IsPositive() {
		return "", "", invalid(ErrRelayInvalidAmount)
	}
	svc := shared.CarrierService(in.Service)
	if !svc.Valid() {
		return "", "", invalid(ErrRelayInvalidService)
	}
	payer := mobilemoney.Normalize(in.Payer)
	if len(payer) != 9 {
		return "", "", invalid(ErrRelayInvalidPayer)
	}
	return svc, payer, nil
}

// Collect records the attempt before calling the provider and settles it
// with the outcome. A provider error is returned after the attempt has
// been marked FAILED.
func (s *RelayServiceImpl) Collect(ctx context.Context, in CollectInput) (*CollectOutput, error) {
	svc, payer, err := validateCollect(in)
	if err != nil {
		return nil, err
	}
	// Amounts are whole units of the collection currency
	amount := in.Amount.IntPart()
	if amount <= 0 {
		return nil, invalid(ErrRelayInvalidAmount)
	}

	trxID := strings.TrimSpace(in.TrxID)
	if trxID == "" {
		trxID = "spendwise_" + strconv.FormatInt(s.now().UnixMilli(), 10)
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = defaultRelayDescription
	}

	attempt, err := payment.NewAttempt(trxID, amount, svc, payer, description)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	s.logger.Info("Processing payment request",
		"trx_id", trxID,
		"service", string(svc),
		"amount", amount,
	)

	resp, err := s.provider.Collect(ctx, mesomb.CollectParams{
		Amount:      amount,
		Service:     string(svc),
		Payer:       payer,
		TrxID:       trxID,
		Description: description,
	})
	if err != nil {
		s.logger.Error("Payment error", "trx_id", trxID, "error", err)
		attempt.Settle(payment.StatusFailed, "", err.Error())
		s.saveAttempt(ctx, attempt)
		return nil, err
	}

	now := s.now()
	out := &CollectOutput{
		Success:     resp.Success,
		Message:     resp.Message,
		Status:      resp.Status,
		Transaction: s.relayTransaction(resp.Transaction, in, payer, now),
		Timestamp:   now.UTC(),
	}

	attempt.Settle(resp.Status, out.Transaction.PK, resp.Message)
	s.saveAttempt(ctx, attempt)

	s.logger.Info("Payment request completed",
		"trx_id", trxID,
		"success", resp.Success,
		"status", attempt.Status,
		"reference", attempt.GatewayReference,
	)
	return out, nil
}

// relayTransaction falls back to the request when the provider returned no
// transaction record.
func (s *RelayServiceImpl) relayTransaction(t *mesomb.Transaction, in CollectInput, payer string, now time.Time) *gateway.Transaction {
	fallbackPK := "mesomb_" + strconv.FormatInt(now.UnixMilli(), 10)
	if t == nil {
		return &gateway.Transaction{
			PK:        fallbackPK,
			Amount:    json.Number(in.Amount.String()),
			Service:   in.Service,
			Payer:     payer,
			Status:    payment.StatusSuccess,
			CreatedAt: now.UTC().Format(time.RFC3339),
		}
	}
	pk := t.PK
	if pk == "" {
		pk = fallbackPK
	}
	return &gateway.Transaction{
		PK:        pk,
		Amount:    t.Amount,
		Service:   t.Service,
		Payer:     t.Payer,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}

// saveAttempt keeps the audit trail best effort; the caller's outcome
// does not depend on it.
func (s *RelayServiceImpl) saveAttempt(ctx context.Context, attempt *payment.Attempt) {
	if err := s.attempts.Update(ctx, attempt); err != nil {
		s.logger.Error("Failed to update payment attempt", "trx_id", attempt.TrxID, "error", err)
	}
}

func (s *RelayServiceImpl) Status(ctx context.Context, transactionID string) (*payment.Attempt, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, invalidf("Transaction ID is required")
	}
	attempt, err := s.attempts.GetByReference(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, payment.ErrAttemptNotFound{}) {
			s.logger.Error("Status check error", "transaction_id", transactionID, "error", err)
		}
		return nil, err
	}
	return attempt, nil
}

// HandleWebhook writes the attempt update and the outbox event atomically.
// A reference the relay never issued is acknowledged and ignored.
func (s *RelayServiceImpl) HandleWebhook(ctx context.Context, in WebhookInput) error {
	if strings.TrimSpace(in.Reference) == "" {
		return invalidf("missing transaction reference")
	}
	if strings.TrimSpace(in.Status) == "" {
		return invalidf("missing transaction status")
	}
	status := payment.NormalizeStatus(in.Status)

	err := s.txExecutor.ExecuteTx(ctx, func(tx pgx.Tx) error {
		attempt, err := s.attempts.WithTx(tx).UpdateStatusByReference(ctx, in.Reference, status)
		if err != nil {
			return err
		}

		event := &shared.PaymentStatusEvent{
			EventID:          uuid.New().String(),
			TransactionRef:   attempt.TrxID,
			GatewayReference: attempt.GatewayReference,
			Status:           status,
			CorrelationID:    in.CorrelationID,
			Timestamp:        s.now().UTC(),
		}
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return fmt.Errorf("failed to build outbox message: %w", err)
		}
		if msg.Reference == "" {
			msg.Reference = attempt.TrxID
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, msg)
	})
	if err != nil {
		if errors.Is(err, payment.ErrAttemptNotFound{}) {
			s.logger.Warn("Webhook for unknown transaction", "reference", in.Reference, "status", status)
			return nil
		}
		s.logger.Error("Webhook error", "reference", in.Reference, "error", err)
		return err
	}

	s.logger.Info("Received webhook", "reference", in.Reference, "status", status)
	return nil
}
