package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/banking-records-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// TopicProducer publishes JSON values to a single topic
type TopicProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewCommandProducer publishes ledger commands. Writes are async; delivery
// failures are logged by the completion callback.
func NewCommandProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TopicProducer, error) {
	return newTopicProducer(logger, cfg, cfg.CommandTopic, true)
}

// NewEventProducer publishes transaction events. Writes are synchronous so
// the relay only advances its cursor after the broker acknowledged.
func NewEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TopicProducer, error) {
	return newTopicProducer(logger, cfg, cfg.EventTopic, false)
}

func newTopicProducer(logger *slog.Logger, cfg *config.KafkaConfig, topic string, async bool) (*TopicProducer, error) {
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for topic %s: %w", topic, err)
	}
	defer conn.Close()

	if err := ensureTopic(conn, topic, cfg.NumPartitions, cfg.ReplicationFactor, logger, defaultTopicRetries, defaultTopicBackoff); err != nil {
		return nil, fmt.Errorf("failed to ensure topic %s exists: %w", topic, err)
	}

	acks := kafka.RequireAll
	if async {
		acks = kafka.RequireOne
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Same account number key, same partition
		RequiredAcks: acks,
		Async:        async,
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages", "topic", topic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Wrote messages", "topic", topic, "count", len(messages))
			}
		},
	}

	return NewTopicProducerWithWriter(logger, writer, topic), nil
}

// NewTopicProducerWithWriter builds a producer over an existing writer
func NewTopicProducerWithWriter(logger *slog.Logger, writer KafkaWriter, topic string) *TopicProducer {
	return &TopicProducer{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

func (p *TopicProducer) Publish(ctx context.Context, key string, value any) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message for %s: %w", p.topic, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published message",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *TopicProducer) Close() error {
	p.logger.Info("Closing Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}

var _ MessagePublisher = (*TopicProducer)(nil)
