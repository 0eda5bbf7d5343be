package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/outbox"
	"github.com/banking-records-ledger/internal/platform/messaging/producers"
)

// EventPublisher publishes one relayed transaction record
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// TransactionEvent is the message written to the event topic
type TransactionEvent struct {
	Offset        int    `json:"offset"`
	AccountNumber string `json:"account_number"`
	Kind          string `json:"kind"`
	Counterparty  string `json:"counterparty,omitempty"`
	Amount        string `json:"amount"`
	Timestamp     string `json:"timestamp"`
}

// KafkaEventPublisher implements EventPublisher on a topic producer
type KafkaEventPublisher struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewEventPublisher creates a new publisher
func NewEventPublisher(producer producers.MessagePublisher, logger *slog.Logger) EventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		logger:   logger,
	}
}

// PublishEvent publishes the record keyed by account so per-account order holds
func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, message *outbox.Message) error {
	tx, err := message.GetTransaction()
	if err != nil {
		return fmt.Errorf("unmarshal payload at offset %d failed: %w", message.Offset, err)
	}

	counterparty, _ := tx.Kind.Counterparty()
	event := TransactionEvent{
		Offset:        message.Offset,
		AccountNumber: tx.AccountNumber,
		Kind:          string(tx.Kind),
		Counterparty:  counterparty,
		Amount:        tx.Amount.StringFixed(2),
		Timestamp:     tx.Timestamp.Format(ledger.TimestampLayout),
	}

	if err := p.producer.Publish(ctx, message.AccountNumber, event); err != nil {
		return fmt.Errorf("failed to publish transaction at offset %d: %w", message.Offset, err)
	}

	p.logger.Debug("Published transaction event", "offset", message.Offset, "account_number", tx.AccountNumber, "kind", tx.Kind)
	return nil
}
