package components

import (
	"log/slog"

	"github.com/spendwise-tracker/internal/config"
	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/status_processor/service"
)

// CreateReconcileService creates a ReconcileService with all its dependencies,
// running on a worker pool when one can be created.
func CreateReconcileService(
	savingsRepo savings.TransactionRepository,
	logger *slog.Logger,
	cfg *config.Config,
) service.ReconcileService {
	validator := NewEventValidator(logger)
	applier := NewStatusApplier(savingsRepo, logger)

	baseService := service.NewReconcileService(validator, applier, logger)

	workerPoolService, err := service.NewWorkerPoolReconcileService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool reconcile service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
