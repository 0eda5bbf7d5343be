package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/banking-records-ledger/internal/transaction_processor/service"
)

type CommandValidatorImpl struct {
	commands shared.CommandLogRepository
	logger   *slog.Logger
}

func NewCommandValidator(commands shared.CommandLogRepository, logger *slog.Logger) service.CommandValidator {
	return &CommandValidatorImpl{
		commands: commands,
		logger:   logger,
	}
}

// Validate checks the command shape. Amounts are checked when the command runs.
func (v *CommandValidatorImpl) Validate(ctx context.Context, command *shared.CommandRequest) error {
	if err := command.Validate(); err != nil {
		v.logger.Warn("Invalid command", "command_id", command.CommandID.String(), "type", command.Type, "error", err)
		return err
	}
	return nil
}

// CheckIdempotency reports whether an outcome is already recorded for the command id
func (v *CommandValidatorImpl) CheckIdempotency(ctx context.Context, command *shared.CommandRequest) (bool, error) {
	logger := v.logger
	if command.CorrelationID != "" {
		logger = v.logger.With("correlation_id", command.CorrelationID)
	}

	existing, err := v.commands.Get(ctx, command.CommandID)
	if err != nil {
		logger.Error("Failed to check command log for idempotency", "command_id", command.CommandID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for command %s: %w", command.CommandID.String(), err)
	}

	if existing != nil {
		logger.Info("Command already processed (idempotency)", "command_id", command.CommandID.String(), "status", existing.Status)
		return true, nil
	}
	return false, nil
}
