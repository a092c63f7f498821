package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/gateway"
	"github.com/spendwise-tracker/internal/live"
	"github.com/spendwise-tracker/internal/mobilemoney"
	"github.com/spendwise-tracker/internal/report"
)

const defaultDepositDescription = "Savings deposit"

// SavingsServiceImpl implements the SavingsService interface
type SavingsServiceImpl struct {
	txRepo    savings.TransactionRepository
	goalRepo  savings.GoalRepository
	gateway   PaymentGateway
	validator PayerValidator
	now       func() time.Time
	logger    *slog.Logger
}

func NewSavingsService(
	logger *slog.Logger,
	txRepo savings.TransactionRepository,
	goalRepo savings.GoalRepository,
	gw PaymentGateway,
	validator PayerValidator,
	loc *time.Location,
) SavingsService {
	return &SavingsServiceImpl{
		txRepo:    txRepo,
		goalRepo:  goalRepo,
		gateway:   gw,
		validator: validator,
		now:       clock(loc),
		logger:    logger,
	}
}

// Deposit records failed collections too, so the history shows every attempt.
func (s *SavingsServiceImpl) Deposit(ctx context.Context, ownerID string, in DepositInput) (*DepositResult, error) {
	if !in.Amount.IsPositive() {
		return nil, invalid(savings.ErrInvalidAmount)
	}
	if !in.Service.Valid() {
		return nil, invalid(shared.ErrInvalidService)
	}
	if !s.validator.IsValidPayerNumber(in.PhoneNumber, in.Service) {
		return nil, invalidf("invalid phone number for " + string(in.Service))
	}
	// The relay accepts the bare subscriber number only
	payer := mobilemoney.Normalize(in.PhoneNumber)

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = defaultDepositDescription
	}

	result := s.gateway.Collect(ctx, gateway.CollectRequest{
		Amount:      in.Amount,
		Service:     in.Service,
		Payer:       payer,
		Description: description,
	})
	status := savings.StatusFromGateway(result.Success, result.Status)

	tx, err := savings.NewTransaction(ownerID, shared.SavingsKindDeposit, in.Amount, in.Service, payer, status, result.Reference(), description)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		s.logger.Error("Failed to record savings deposit",
			"owner_id", ownerID,
			"reference", tx.ExternalRef,
			"status", string(status),
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("Savings deposit recorded",
		"savings_id", tx.ID.String(),
		"owner_id", ownerID,
		"status", string(status),
		"reference", tx.ExternalRef,
		"simulated", result.Simulated,
	)
	return &DepositResult{
		Payment:      result,
		Transaction:  tx,
		PayerDisplay: s.validator.FormatPayerNumber(payer),
	}, nil
}

func (s *SavingsServiceImpl) ListTransactions(ctx context.Context, ownerID string) ([]*savings.Transaction, error) {
	txs, err := s.txRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to list savings transactions", "owner_id", ownerID, "error", err)
		return nil, err
	}
	return txs, nil
}

func (s *SavingsServiceImpl) Summary(ctx context.Context, ownerID string) (*report.SavingsSummary, error) {
	var (
		txs   []*savings.Transaction
		goals []*savings.Goal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.txRepo.ListByOwner(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.goalRepo.ListByOwner(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load savings summary", "owner_id", ownerID, "error", err)
		return nil, err
	}

	summary := report.Summary(txs, goals, s.now())
	return &summary, nil
}

// Watch binds the savings and goal subscriptions together. Nothing is
// summarized until both have delivered.
func (s *SavingsServiceImpl) Watch(ctx context.Context, ownerID string) (<-chan LiveSavings, error) {
	updates := newLatestOnly[LiveSavings]()

	var (
		mu    sync.Mutex
		txs   *live.Binding[*savings.Transaction]
		goals *live.Binding[*savings.Goal]
	)
	refresh := func() {
		mu.Lock()
		defer mu.Unlock()

		txSnap := txs.View().Snapshot()
		goalSnap := goals.View().Snapshot()
		u := LiveSavings{
			Transactions: txSnap.Items,
			Goals:        make([]GoalView, 0, len(goalSnap.Items)),
			Loading:      txSnap.Loading || goalSnap.Loading,
			Error:        txSnap.Error,
		}
		if u.Error == "" {
			u.Error = goalSnap.Error
		}
		for _, g := range goalSnap.Items {
			u.Goals = append(u.Goals, newGoalView(g))
		}
		if !u.Loading {
			summary := report.Summary(txSnap.Items, goalSnap.Items, s.now())
			u.Summary = &summary
		}
		updates.push(u)
	}
	txs = live.NewBinding(s.txRepo.Subscribe, func(live.Snapshot[*savings.Transaction]) { refresh() })
	goals = live.NewBinding(s.goalRepo.Subscribe, func(live.Snapshot[*savings.Goal]) { refresh() })

	release := func() {
		if err := txs.Close(); err != nil {
			s.logger.Warn("Failed to release savings stream", "owner_id", ownerID, "error", err)
		}
		if err := goals.Close(); err != nil {
			s.logger.Warn("Failed to release goal stream", "owner_id", ownerID, "error", err)
		}
	}
	if err := txs.Bind(ctx, ownerID); err != nil {
		s.logger.Error("Failed to start savings stream", "owner_id", ownerID, "error", err)
		release()
		return nil, err
	}
	if err := goals.Bind(ctx, ownerID); err != nil {
		s.logger.Error("Failed to start goal stream", "owner_id", ownerID, "error", err)
		release()
		return nil, err
	}
	s.logger.Info("Savings stream opened", "owner_id", ownerID)

	return updates.forward(ctx, func() {
		release()
		s.logger.Info("Savings stream closed", "owner_id", ownerID)
	}), nil
}

func (s *SavingsServiceImpl) CreateGoal(ctx context.Context, ownerID string, in GoalInput) (*savings.Goal, error) {
	goal, err := savings.NewGoal(ownerID, in.Name, in.TargetAmount, in.Deadline, in.Category, in.Description)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.goalRepo.Create(ctx, goal); err != nil {
		s.logger.Error("Failed to create goal", "owner_id", ownerID, "error", err)
		return nil, err
	}
	s.logger.Info("Goal created", "goal_id", goal.ID.String(), "owner_id", ownerID, "target", goal.TargetAmount.String())
	return goal, nil
}

func (s *SavingsServiceImpl) ListGoals(ctx context.Context, ownerID string) ([]GoalView, error) {
	goals, err := s.goalRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to list goals", "owner_id", ownerID, "error", err)
		return nil, err
	}
	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, newGoalView(g))
	}
	return views, nil
}

func newGoalView(g *savings.Goal) GoalView {
	return GoalView{Goal: g, Progress: report.GoalProgress(g), Remaining: g.Remaining()}
}

func (s *SavingsServiceImpl) UpdateGoal(ctx context.Context, ownerID string, id uuid.UUID, patch savings.GoalPatch) (*savings.Goal, error) {
	if err := patch.Validate(); err != nil {
		return nil, invalid(err)
	}

	goal, err := s.goalRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(goal); err != nil {
		return nil, invalid(err)
	}
	if err := s.goalRepo.Update(ctx, goal); err != nil {
		s.logger.Error("Failed to update goal", "goal_id", id.String(), "error", err)
		return nil, err
	}
	return goal, nil
}

func (s *SavingsServiceImpl) DeleteGoal(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := s.goalRepo.Delete(ctx, ownerID, id); err != nil {
		if !errors.Is(err, savings.ErrGoalNotFound{}) {
			s.logger.Error("Failed to delete goal", "goal_id", id.String(), "error", err)
		}
		return err
	}
	s.logger.Info("Goal deleted", "goal_id", id.String(), "owner_id", ownerID)
	return nil
}

// Contribute returns savings.ErrExceedsTarget or savings.ErrInactiveGoal
// when the store refuses the increment.
func (s *SavingsServiceImpl) Contribute(ctx context.Context, ownerID string, id uuid.UUID, amount decimal.Decimal) (*savings.Goal, error) {
	if !amount.IsPositive() {
		return nil, invalid(savings.ErrInvalidContributed)
	}

	goal, err := s.goalRepo.AddContribution(ctx, ownerID, id, amount)
	if err != nil {
		if errors.Is(err, savings.ErrExceedsTarget) || errors.Is(err, savings.ErrInactiveGoal) {
			s.logger.Info("Contribution refused", "goal_id", id.String(), "amount", amount.String(), "reason", err.Error())
		} else if !errors.Is(err, savings.ErrGoalNotFound{}) {
			s.logger.Error("Failed to add contribution", "goal_id", id.String(), "error", err)
		}
		return nil, err
	}
	s.logger.Info("Contribution added", "goal_id", id.String(), "amount", amount.String(), "current", goal.CurrentAmount.String())
	return goal, nil
}
