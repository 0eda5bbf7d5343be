package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// AuditIncompleteNote is kept with a completed outcome whose log records were not written
const AuditIncompleteNote = "AUDIT_INCOMPLETE"

type ProcessingServiceImpl struct {
	validator CommandValidator
	executor  CommandExecutor
	recorder  OutcomeRecorder
	logger    *slog.Logger
}

func NewProcessingService(
	validator CommandValidator,
	executor CommandExecutor,
	recorder OutcomeRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		validator: validator,
		executor:  executor,
		recorder:  recorder,
		logger:    logger,
	}
}

// ProcessCommand handles one command. A nil return acknowledges the message;
// an error leaves it uncommitted so the consumer retries.
func (s *ProcessingServiceImpl) ProcessCommand(ctx context.Context, command *shared.CommandRequest) error {
	logger := s.logger
	if command.CorrelationID != "" {
		logger = s.logger.With("correlation_id", command.CorrelationID)
	}

	logger.Info("Processing command",
		"command_id", command.CommandID.String(),
		"type", command.Type,
		"account_number", command.AccountNumber,
	)

	// 1. Validate the command
	if err := s.validator.Validate(ctx, command); err != nil {
		logger.Warn("Command validation failed", "command_id", command.CommandID.String(), "error", err)
		if command.CommandID != uuid.Nil {
			s.recordFailure(ctx, logger, command, shared.FailureReasonFor(err))
		}
		return nil
	}

	// 2. Check idempotency
	skip, err := s.validator.CheckIdempotency(ctx, command)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	// 3. Run it against the ledger
	summary, err := s.executor.Execute(ctx, command)
	if err != nil {
		var auditErr *shared.AuditIncompleteError
		switch {
		case errors.As(err, &auditErr):
			// Balances already changed; running it again would apply it twice
			logger.Error("Command applied but audit records are missing",
				"command_id", command.CommandID.String(),
				"operation", auditErr.Operation,
				"error", err,
			)
			s.recordSuccess(ctx, logger, command, AuditIncompleteNote)
			return nil
		case shared.IsBusinessError(err):
			logger.Warn("Command rejected", "command_id", command.CommandID.String(), "error", err)
			s.recordFailure(ctx, logger, command, shared.FailureReasonFor(err))
			return nil
		default:
			logger.Error("Command failed, will retry", "command_id", command.CommandID.String(), "error", err)
			return fmt.Errorf("failed to execute command %s: %w", command.CommandID.String(), err)
		}
	}

	// 4. Record the outcome
	s.recordSuccess(ctx, logger, command, summary)
	logger.Info("Command completed", "command_id", command.CommandID.String(), "result", summary)
	return nil
}

// A lost outcome only weakens deduplication, while a retry would move money
// again, so recording errors are logged and swallowed.
func (s *ProcessingServiceImpl) recordSuccess(ctx context.Context, logger *slog.Logger, command *shared.CommandRequest, note string) {
	if err := s.recorder.RecordSuccess(ctx, command, note); err != nil {
		logger.Error("Failed to record command outcome", "command_id", command.CommandID.String(), "error", err)
	}
}

func (s *ProcessingServiceImpl) recordFailure(ctx context.Context, logger *slog.Logger, command *shared.CommandRequest, reason shared.FailureReason) {
	if err := s.recorder.RecordFailure(ctx, command, reason); err != nil {
		logger.Error("Failed to record command failure", "command_id", command.CommandID.String(), "reason", reason, "error", err)
	}
}
