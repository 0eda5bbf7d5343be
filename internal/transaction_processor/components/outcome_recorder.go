package components

import (
	"context"
	"log/slog"
	"time"

	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/banking-records-ledger/internal/transaction_processor/service"
)

type OutcomeRecorderImpl struct {
	commands shared.CommandLogRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewOutcomeRecorder(commands shared.CommandLogRepository, logger *slog.Logger) service.OutcomeRecorder {
	return &OutcomeRecorderImpl{
		commands: commands,
		logger:   logger,
		now:      time.Now,
	}
}

// RecordSuccess marks the command COMPLETED
func (r *OutcomeRecorderImpl) RecordSuccess(ctx context.Context, command *shared.CommandRequest, note string) error {
	return r.record(ctx, command, shared.CommandStatusCompleted, note)
}

// RecordFailure marks the command FAILED with its failure category
func (r *OutcomeRecorderImpl) RecordFailure(ctx context.Context, command *shared.CommandRequest, reason shared.FailureReason) error {
	return r.record(ctx, command, shared.CommandStatusFailed, string(reason))
}

func (r *OutcomeRecorderImpl) record(ctx context.Context, command *shared.CommandRequest, status shared.CommandStatus, reason string) error {
	logger := r.logger
	if command.CorrelationID != "" {
		logger = r.logger.With("correlation_id", command.CorrelationID)
	}

	outcome := &shared.CommandOutcome{
		CommandID:  command.CommandID,
		Status:     status,
		Reason:     reason,
		RecordedAt: r.now().UTC(),
	}
	if err := r.commands.Record(ctx, outcome); err != nil {
		logger.Error("Failed to record command outcome", "command_id", command.CommandID.String(), "status", status, "error", err)
		return err
	}

	logger.Info("Recorded command outcome", "command_id", command.CommandID.String(), "status", status, "reason", reason)
	return nil
}
