package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/domain/transaction"
	"github.com/spendwise-tracker/internal/report"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	repo   transaction.Repository
	now    func() time.Time
	logger *slog.Logger
}

// NewTransactionService creates a new transaction service. "Today" and
// "this week" filters are evaluated in loc.
func NewTransactionService(logger *slog.Logger, repo transaction.Repository, loc *time.Location) TransactionService {
	return &TransactionServiceImpl{
		repo:   repo,
		now:    clock(loc),
		logger: logger,
	}
}

func clock(loc *time.Location) func() time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

func (s *TransactionServiceImpl) Create(ctx context.Context, ownerID string, in CreateTransactionInput) (*transaction.Transaction, error) {
	tx, err := transaction.NewTransaction(ownerID, in.Kind, in.Amount, in.Currency, in.Category, in.Description, in.Date)
	if err != nil {
		return nil, invalid(err)
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		s.logger.Error("Failed to create transaction",
			"owner_id", ownerID,
			"type", string(in.Kind),
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("Transaction created",
		"transaction_id", tx.ID.String(),
		"owner_id", ownerID,
		"type", string(tx.Kind),
		"amount", tx.Amount.String(),
	)
	return tx, nil
}

func (s *TransactionServiceImpl) List(ctx context.Context, ownerID string, criteria report.Criteria) (*TransactionList, error) {
	if criteria.Kind != "" && criteria.Kind != report.All {
		if _, err := shared.ParseTransactionKind(criteria.Kind); err != nil {
			return nil, invalid(err)
		}
	}

	all, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to list transactions", "owner_id", ownerID, "error", err)
		return nil, err
	}

	filtered := report.Filter(all, criteria, s.now())
	return &TransactionList{
		Transactions: filtered,
		Categories:   report.Categories(all),
		Total:        len(filtered),
	}, nil
}

func (s *TransactionServiceImpl) Update(ctx context.Context, ownerID string, id uuid.UUID, patch transaction.Patch) (*transaction.Transaction, error) {
	if err := patch.Validate(); err != nil {
		return nil, invalid(err)
	}

	tx, err := s.repo.Update(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound{}) {
			s.logger.Info("Transaction not found", "transaction_id", id.String(), "owner_id", ownerID)
		} else {
			s.logger.Error("Failed to update transaction", "transaction_id", id.String(), "error", err)
		}
		return nil, err
	}
	return tx, nil
}

func (s *TransactionServiceImpl) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if !errors.Is(err, transaction.ErrTransactionNotFound{}) {
			s.logger.Error("Failed to delete transaction", "transaction_id", id.String(), "error", err)
		}
		return err
	}
	s.logger.Info("Transaction deleted", "transaction_id", id.String(), "owner_id", ownerID)
	return nil
}
