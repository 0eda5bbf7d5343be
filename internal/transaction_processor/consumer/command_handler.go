package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/banking-records-ledger/internal/platform/messaging/producers"
	"github.com/banking-records-ledger/internal/transaction_processor/service"
)

// CommandHandler handles incoming ledger command messages from Kafka
type CommandHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewCommandHandler creates a new handler
func NewCommandHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *CommandHandler {
	return &CommandHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *CommandHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var command shared.CommandRequest
	if err := json.Unmarshal(value, &command); err != nil {
		return h.deadLetter(ctx, key, value, err)
	}

	logger := h.logger
	if command.CorrelationID != "" {
		logger = h.logger.With("correlation_id", command.CorrelationID)
	}

	logger.Info("Received command for processing",
		"command_id", command.CommandID.String(),
		"type", command.Type,
		"account_number", command.AccountNumber,
		"amount", command.Amount.String(),
	)

	if err := h.processingService.ProcessCommand(ctx, &command); err != nil {
		logger.Error("Failed to process command",
			"command_id", command.CommandID.String(),
			"account_number", command.AccountNumber,
			"error", err,
		)
		return fmt.Errorf("processing command %s failed: %w", command.CommandID.String(), err)
	}

	return nil // Success, commit offset
}

// deadLetter parks a message that can never be decoded
func (h *CommandHandler) deadLetter(ctx context.Context, key, value []byte, decodeErr error) error {
	const unmarshalErrorMsg = "Failed to unmarshal command from Kafka message"
	h.logger.Error(unmarshalErrorMsg, "error", decodeErr, "message_key", string(key))

	reason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, decodeErr.Error())
	err := h.producer.PublishToDLQ(ctx, string(key), value, reason)
	switch {
	case err == nil:
		h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key))
		return nil
	case errors.Is(err, producers.ErrDLQDisabled):
		// Redelivery cannot fix the payload
		h.logger.Warn("Dropping unprocessable message, no DLQ configured", "message_key", string(key))
		return nil
	default:
		h.logger.Error("Failed to publish message to DLQ after unmarshal error",
			"dlq_error", err,
			"original_error", decodeErr,
			"message_key", string(key),
		)
		return fmt.Errorf("failed to unmarshal message value: %w", decodeErr)
	}
}
