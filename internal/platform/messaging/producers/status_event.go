package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/spendwise-tracker/internal/config"
)

// StatusEventProducer publishes payment status events to Kafka
type StatusEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewStatusEventProducer creates a synchronous producer and ensures the topic
// exists. Writes wait for all replicas so the outbox row is only removed once
// the event is durable.
func NewStatusEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*StatusEventProducer, error) {
	if cfg.StatusTopic == "" {
		return nil, fmt.Errorf("kafka status topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for status producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(ctx, conn, cfg.StatusTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure status topic %s exists: %w", cfg.StatusTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.StatusTopic,
		Balancer:     &kafka.Hash{}, // same reference, same partition
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &StatusEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.StatusTopic,
	}, nil
}

func (p *StatusEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish status event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish status event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published status event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *StatusEventProducer) Close() error {
	p.logger.Info("Closing status event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
