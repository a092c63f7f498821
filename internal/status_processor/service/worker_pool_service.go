package service

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/spendwise-tracker/internal/domain/shared"
)

// WorkerPoolReconcileService runs reconciliation on a bounded worker pool
type WorkerPoolReconcileService struct {
	baseService ReconcileService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolReconcileService(
	baseService ReconcileService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolReconcileService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolReconcileService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// Reconcile submits the event to the pool and waits for its result, so
// the consumer commits only after the work is done.
func (s *WorkerPoolReconcileService) Reconcile(ctx context.Context, event *shared.PaymentStatusEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Debug("Submitting status event to worker pool", "event_id", event.EventID)

	resultChan := make(chan error, 1)
	eventCopy := *event

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.Reconcile(ctx, &eventCopy)
	})
	if err != nil {
		logger.Error("Failed to submit status event to worker pool",
			"event_id", event.EventID,
			"error", err,
		)
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolReconcileService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolReconcileService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolReconcileService) Capacity() int {
	return s.pool.Cap()
}
