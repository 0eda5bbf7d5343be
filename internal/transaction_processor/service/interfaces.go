package service

import (
	"context"

	"github.com/banking-records-ledger/internal/domain/shared"
)

// ProcessingService defines the interface for processing ledger commands.
type ProcessingService interface {
	ProcessCommand(ctx context.Context, command *shared.CommandRequest) error
}

// CommandValidator validates commands before processing
type CommandValidator interface {
	Validate(ctx context.Context, command *shared.CommandRequest) error
	CheckIdempotency(ctx context.Context, command *shared.CommandRequest) (bool, error)
}

// CommandExecutor runs a command against the ledger. The returned summary is
// kept with the outcome.
type CommandExecutor interface {
	Execute(ctx context.Context, command *shared.CommandRequest) (string, error)
}

// OutcomeRecorder records the terminal outcome of a command
type OutcomeRecorder interface {
	RecordSuccess(ctx context.Context, command *shared.CommandRequest, note string) error
	RecordFailure(ctx context.Context, command *shared.CommandRequest, reason shared.FailureReason) error
}
