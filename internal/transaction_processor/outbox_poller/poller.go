// Package outbox_poller relays the transaction log to the event topic. The
// log itself is the outbox: a persisted cursor marks the next record to
// publish, and delivery is at least once.
package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/banking-records-ledger/internal/config"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/outbox"
	"github.com/banking-records-ledger/internal/platform/messaging/producers"
)

// Poller publishes transaction records appended since the last run
type Poller struct {
	transactions     ledger.TransactionRepository
	cursor           outbox.CursorRepository
	publisher        EventPublisher
	dlq              producers.DeadLetterPublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int

	pending *outbox.Message // Head of the log that failed to publish, with its attempts
}

func NewPoller(
	cfg *config.OutboxConfig,
	transactions ledger.TransactionRepository,
	cursor outbox.CursorRepository,
	publisher EventPublisher,
	dlq producers.DeadLetterPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		transactions:     transactions,
		cursor:           cursor,
		publisher:        publisher,
		dlq:              dlq,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting event relay",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Event relay stopping due to context cancellation.")
			return
		case <-ticker.C:
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of transaction records", "error", err)
			}
		}
	}
}

func (p *Poller) processPendingMessages(ctx context.Context) error {
	offset, err := p.cursor.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load relay cursor: %w", err)
	}

	records, err := p.transactions.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load transaction log: %w", err)
	}

	if offset > len(records) {
		p.logger.Warn("Relay cursor is past the end of the transaction log, resetting", "cursor", offset, "records", len(records))
		p.pending = nil
		return p.cursor.Save(ctx, len(records))
	}

	end := min(offset+p.batchSize, len(records))
	if end == offset {
		p.logger.Debug("No new transaction records")
		return nil
	}

	next := offset
	for i := offset; i < end; i++ {
		msg, err := p.messageAt(i, records[i])
		if err != nil {
			return err
		}

		if err := p.publisher.PublishEvent(ctx, msg); err != nil {
			msg.IncrementAttempts()
			p.logger.Error("Failed to publish transaction record",
				"offset", msg.Offset, "account_number", msg.AccountNumber, "attempts", msg.Attempts, "error", err,
			)

			if !msg.Exhausted(p.maxRetryAttempts) || !p.deadLetter(ctx, msg, err) {
				// Order matters per account, so nothing after this record goes out yet
				p.pending = msg
				break
			}
		}

		p.pending = nil
		next = i + 1
	}

	if next == offset {
		return nil
	}
	if err := p.cursor.Save(ctx, next); err != nil {
		return fmt.Errorf("published up to offset %d but failed to save relay cursor: %w", next, err)
	}
	p.logger.Info("Relayed transaction records", "from", offset, "to", next)
	return nil
}

// messageAt reuses the pending message for the same offset so its attempts carry over
func (p *Poller) messageAt(offset int, tx *ledger.TransactionRecord) (*outbox.Message, error) {
	if p.pending != nil && p.pending.Offset == offset {
		return p.pending, nil
	}
	msg, err := outbox.NewMessage(offset, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction at offset %d: %w", offset, err)
	}
	return msg, nil
}

// deadLetter reports whether the relay may move past msg
func (p *Poller) deadLetter(ctx context.Context, msg *outbox.Message, publishErr error) bool {
	reason := fmt.Sprintf("publish failed after %d attempts: %v", msg.Attempts, publishErr)
	err := p.dlq.PublishToDLQ(ctx, msg.AccountNumber, msg.Payload, reason)
	switch {
	case err == nil:
		p.logger.Warn("Max retry attempts reached, transaction record sent to DLQ", "offset", msg.Offset, "attempts", msg.Attempts)
		return true
	case errors.Is(err, producers.ErrDLQDisabled):
		p.logger.Warn("Max retry attempts reached, skipping transaction record", "offset", msg.Offset, "attempts", msg.Attempts)
		return true
	default:
		p.logger.Error("Failed to send transaction record to DLQ", "offset", msg.Offset, "error", err)
		return false
	}
}
