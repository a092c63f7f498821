package producers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-tracker/internal/domain/shared"
)

// MockKafkaWriter mocks KafkaWriter interface
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAMQPChannel mocks AMQPChannel interface
type MockAMQPChannel struct {
	mock.Mock
}

func (m *MockAMQPChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	args := m.Called(ctx, exchange, key, msg)
	return args.Error(0)
}

func (m *MockAMQPChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestStatusEventProducer_Publish(t *testing.T) {
	ctx := context.Background()
	event := &shared.PaymentStatusEvent{EventID: "e-1", GatewayReference: "pk_42", Status: "SUCCESS"}
	expected, _ := json.Marshal(event)

	t.Run("SuccessfulPublish", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &StatusEventProducer{logger: testLogger(), writer: mockWriter, topic: "status"}

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			return len(msgs) == 1 && string(msgs[0].Key) == "pk_42" && string(msgs[0].Value) == string(expected)
		})).Return(nil).Once()

		require.NoError(t, producer.Publish(ctx, "pk_42", event))
		mockWriter.AssertExpectations(t)
	})

	t.Run("RawPayloadIsForwardedAsIs", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &StatusEventProducer{logger: testLogger(), writer: mockWriter, topic: "status"}

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			return string(msgs[0].Value) == `{"status":"FAILED"}`
		})).Return(nil).Once()

		require.NoError(t, producer.Publish(ctx, "pk_1", json.RawMessage(`{"status":"FAILED"}`)))
		mockWriter.AssertExpectations(t)
	})

	t.Run("WriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &StatusEventProducer{logger: testLogger(), writer: mockWriter, topic: "status"}
		writerErr := errors.New("kafka write error")

		mockWriter.On("WriteMessages", ctx, mock.AnythingOfType("[]kafka.Message")).Return(writerErr).Once()

		err := producer.Publish(ctx, "pk_42", event)
		assert.ErrorIs(t, err, writerErr)
	})

	t.Run("MarshalError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &StatusEventProducer{logger: testLogger(), writer: mockWriter, topic: "status"}

		err := producer.Publish(ctx, "pk_42", make(chan int))
		assert.Error(t, err)
		mockWriter.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})
}

func TestDLQProducer(t *testing.T) {
	ctx := context.Background()

	t.Run("PublishWrapsOriginal", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DLQProducer{logger: testLogger(), writer: mockWriter, dlqTopic: "dlq"}
		original := []byte(`not json`)

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 || string(msgs[0].Key) != "k" {
				return false
			}
			var payload map[string]string
			if err := json.Unmarshal(msgs[0].Value, &payload); err != nil {
				return false
			}
			return payload["original_value"] == "not json" &&
				payload["dlq_reason"] == "malformed" &&
				payload["timestamp"] != "" &&
				string(msgs[0].Headers[0].Value) == "malformed"
		})).Return(nil).Once()

		require.NoError(t, producer.PublishToDLQ(ctx, "k", original, "malformed"))
		mockWriter.AssertExpectations(t)
	})

	t.Run("Disabled", func(t *testing.T) {
		var producer *DLQProducer
		assert.ErrorIs(t, producer.PublishToDLQ(ctx, "k", nil, "x"), ErrDLQDisabled)
		assert.NoError(t, producer.Close())
	})

	t.Run("CloseError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DLQProducer{logger: testLogger(), writer: mockWriter, dlqTopic: "dlq"}
		closeErr := errors.New("close failed")
		mockWriter.On("Close").Return(closeErr).Once()

		assert.ErrorIs(t, producer.Close(), closeErr)
	})
}

func TestAMQPPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("PublishToStatusQueue", func(t *testing.T) {
		channel := new(MockAMQPChannel)
		publisher := &AMQPPublisher{logger: testLogger(), channel: channel, queue: "status", dlqQueue: "status_dlq"}

		channel.On("PublishWithContext", mock.Anything, "", "status", mock.MatchedBy(func(msg amqp091.Publishing) bool {
			return msg.MessageId == "pk_42" &&
				msg.DeliveryMode == amqp091.Persistent &&
				string(msg.Body) == `{"status":"SUCCESS"}`
		})).Return(nil).Once()

		require.NoError(t, publisher.Publish(ctx, "pk_42", map[string]string{"status": "SUCCESS"}))
		channel.AssertExpectations(t)
	})

	t.Run("PublishToDLQ", func(t *testing.T) {
		channel := new(MockAMQPChannel)
		publisher := &AMQPPublisher{logger: testLogger(), channel: channel, queue: "status", dlqQueue: "status_dlq"}

		channel.On("PublishWithContext", mock.Anything, "", "status_dlq", mock.MatchedBy(func(msg amqp091.Publishing) bool {
			return msg.Headers["dlq-reason"] == "bad payload"
		})).Return(nil).Once()

		require.NoError(t, publisher.PublishToDLQ(ctx, "k", []byte("{"), "bad payload"))
		channel.AssertExpectations(t)
	})

	t.Run("DLQDisabled", func(t *testing.T) {
		publisher := &AMQPPublisher{logger: testLogger(), channel: new(MockAMQPChannel), queue: "status"}
		assert.ErrorIs(t, publisher.PublishToDLQ(ctx, "k", nil, "x"), ErrDLQDisabled)
	})

	t.Run("ChannelError", func(t *testing.T) {
		channel := new(MockAMQPChannel)
		publisher := &AMQPPublisher{logger: testLogger(), channel: channel, queue: "status"}
		chErr := errors.New("channel closed")
		channel.On("PublishWithContext", mock.Anything, "", "status", mock.Anything).Return(chErr).Once()

		assert.ErrorIs(t, publisher.Publish(ctx, "k", "v"), chErr)
	})

	t.Run("CloseIsIdempotent", func(t *testing.T) {
		channel := new(MockAMQPChannel)
		publisher := &AMQPPublisher{logger: testLogger(), channel: channel, queue: "status"}
		channel.On("Close").Return(nil).Once()

		assert.NoError(t, publisher.Close())
		assert.NoError(t, publisher.Close())
		channel.AssertExpectations(t)
	})
}
