package producers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDLQProducer_PublishToDLQ(t *testing.T) {
	ctx := context.Background()

	t.Run("WrapsOriginalMessage", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := NewDLQProducerWithWriter(testLogger(), mockWriter, "ledger_dlq")
		producer.now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }

		original := []byte(`{"type":"DEPOSIT"`)

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 || string(msgs[0].Key) != "cmd-1" {
				return false
			}
			var payload DLQMessage
			if err := json.Unmarshal(msgs[0].Value, &payload); err != nil {
				return false
			}
			return payload.OriginalKey == "cmd-1" &&
				payload.OriginalValue == string(original) &&
				payload.DLQReason == "unmarshal failed" &&
				payload.Timestamp == "2024-03-15T10:30:00Z" &&
				string(msgs[0].Headers[0].Value) == "unmarshal failed"
		})).Return(nil).Once()

		require.NoError(t, producer.PublishToDLQ(ctx, "cmd-1", original, "unmarshal failed"))
		mockWriter.AssertExpectations(t)
	})

	t.Run("WriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := NewDLQProducerWithWriter(testLogger(), mockWriter, "ledger_dlq")
		writerError := errors.New("kafka DLQ write error")

		mockWriter.On("WriteMessages", ctx, mock.AnythingOfType("[]kafka.Message")).Return(writerError).Once()

		err := producer.PublishToDLQ(ctx, "k", []byte("v"), "r")
		assert.ErrorIs(t, err, writerError)
	})

	t.Run("Disabled", func(t *testing.T) {
		var producer *DLQProducer

		err := producer.PublishToDLQ(ctx, "k", []byte("v"), "r")
		assert.ErrorIs(t, err, ErrDLQDisabled)
		assert.NoError(t, producer.Close())
	})
}

func TestDLQProducer_Close(t *testing.T) {
	t.Run("SuccessfulClose", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("Close").Return(nil).Once()

		require.NoError(t, NewDLQProducerWithWriter(testLogger(), mockWriter, "ledger_dlq").Close())
		mockWriter.AssertExpectations(t)
	})

	t.Run("WriterCloseError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		closeError := errors.New("kafka DLQ close error")
		mockWriter.On("Close").Return(closeError).Once()

		assert.ErrorIs(t, NewDLQProducerWithWriter(testLogger(), mockWriter, "ledger_dlq").Close(), closeError)
	})
}
