package components

import (
	"log/slog"

	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/config"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/banking-records-ledger/internal/transaction_processor/service"
)

// CreateProcessingService creates a new ProcessingService with all its dependencies.
func CreateProcessingService(
	bank *banking.Bank,
	commands shared.CommandLogRepository,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	validator := NewCommandValidator(commands, logger)
	executor := NewCommandExecutor(bank.Accounts, bank.Transfers, bank.Interest, logger)
	recorder := NewOutcomeRecorder(commands, logger)

	baseService := service.NewProcessingService(validator, executor, recorder, logger)
	if cfg.WorkerPool.Size <= 0 {
		logger.Warn("Worker pool size not set, processing commands inline", "pool_size", cfg.WorkerPool.Size)
		return baseService
	}

	workerPoolService, err := service.NewWorkerPoolProcessingService(
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

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
