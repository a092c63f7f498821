package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/spendwise-tracker/internal/domain/transaction"
	"github.com/spendwise-tracker/internal/live"
	"github.com/spendwise-tracker/internal/report"
)

// ReportServiceImpl implements the ReportService interface
type ReportServiceImpl struct {
	repo   transaction.Repository
	now    func() time.Time
	logger *slog.Logger
}

func NewReportService(logger *slog.Logger, repo transaction.Repository, loc *time.Location) ReportService {
	return &ReportServiceImpl{
		repo:   repo,
		now:    clock(loc),
		logger: logger,
	}
}

func (s *ReportServiceImpl) Dashboard(ctx context.Context, ownerID string) (*DashboardReport, error) {
	txs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to load dashboard", "owner_id", ownerID, "error", err)
		return nil, err
	}
	return s.dashboard(txs), nil
}

func (s *ReportServiceImpl) dashboard(txs []*transaction.Transaction) *DashboardReport {
	recent := txs
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return &DashboardReport{
		Stats:  report.Dashboard(txs),
		Quick:  report.Quick(txs, s.now()),
		Recent: append([]*transaction.Transaction{}, recent...),
	}
}

// Yearly defaults to the current year when year is zero
func (s *ReportServiceImpl) Yearly(ctx context.Context, ownerID string, year int) (*YearlyView, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if year < 1 {
		return nil, invalidf("year must be positive")
	}

	txs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to load yearly report", "owner_id", ownerID, "year", year, "error", err)
		return nil, err
	}
	return &YearlyView{
		Report:         report.Yearly(txs, year),
		AvailableYears: report.AvailableYears(txs),
	}, nil
}

// Watch keeps only the newest pending dashboard for a slow reader.
func (s *ReportServiceImpl) Watch(ctx context.Context, ownerID string) (<-chan LiveDashboard, error) {
	updates := newLatestOnly[LiveDashboard]()

	binding := live.NewBinding(s.repo.Subscribe, func(snap live.Snapshot[*transaction.Transaction]) {
		u := LiveDashboard{Loading: snap.Loading, Error: snap.Error}
		if !snap.Loading {
			u.Dashboard = s.dashboard(snap.Items)
		}
		updates.push(u)
	})
	release := func() {
		if err := binding.Close(); err != nil {
			s.logger.Warn("Failed to release dashboard stream", "owner_id", ownerID, "error", err)
		}
	}
	if err := binding.Bind(ctx, ownerID); err != nil {
		s.logger.Error("Failed to start dashboard stream", "owner_id", ownerID, "error", err)
		release()
		return nil, err
	}
	s.logger.Info("Dashboard stream opened", "owner_id", ownerID)

	return updates.forward(ctx, func() {
		release()
		s.logger.Info("Dashboard stream closed", "owner_id", ownerID)
	}), nil
}
