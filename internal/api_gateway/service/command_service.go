package service

import (
	"context"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/banking-records-ledger/internal/platform/messaging/producers"
	"github.com/google/uuid"
)

// CommandServiceImpl implements the CommandService interface
type CommandServiceImpl struct {
	commands shared.CommandLogRepository
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewCommandService creates a new command service
func NewCommandService(logger *slog.Logger, commands shared.CommandLogRepository, producer producers.MessagePublisher) CommandService {
	return &CommandServiceImpl{
		commands: commands,
		producer: producer,
		logger:   logger,
	}
}

// Submit publishes a command keyed by account so commands on one account keep their order
func (s *CommandServiceImpl) Submit(ctx context.Context, command *shared.CommandRequest) (*shared.CommandOutcome, error) {
	existing, err := s.commands.Get(ctx, command.CommandID)
	if err != nil {
		s.logger.Error("Failed to check command log",
			"command_id", command.CommandID,
			"error", err,
		)
		return nil, err
	}
	if existing != nil {
		s.logger.Info("Command already handled",
			"command_id", command.CommandID,
			"status", existing.Status,
		)
		return existing, nil
	}

	if err := s.producer.Publish(ctx, PartitionKey(command), command); err != nil {
		s.logger.Error("Failed to publish command",
			"command_id", command.CommandID,
			"type", command.Type,
			"account_number", command.AccountNumber,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("Command published",
		"command_id", command.CommandID,
		"type", command.Type,
		"account_number", command.AccountNumber,
		"amount", command.Amount.StringFixed(2),
		"correlation_id", command.CorrelationID,
	)
	return nil, nil
}

func (s *CommandServiceImpl) GetOutcome(ctx context.Context, commandID uuid.UUID) (*shared.CommandOutcome, error) {
	return s.commands.Get(ctx, commandID)
}

// PartitionKey routes commands on the same account to the same partition.
// Interest runs touch every account and share one key.
func PartitionKey(command *shared.CommandRequest) string {
	if command.AccountNumber == "" {
		return string(command.Type)
	}
	return command.AccountNumber
}
