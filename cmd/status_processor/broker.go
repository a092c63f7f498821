package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spendwise-tracker/internal/config"
	"github.com/spendwise-tracker/internal/platform/messaging/consumers"
	"github.com/spendwise-tracker/internal/platform/messaging/producers"
)

// broker bundles the clients of the configured event broker
type broker struct {
	publisher producers.MessagePublisher
	dlq       producers.DeadLetterPublisher
	consumer  consumers.Consumer
	topic     string
	group     string
}

func newBroker(ctx context.Context, log *slog.Logger, cfg *config.Config) (*broker, error) {
	switch cfg.Events.Broker {
	case config.BrokerAMQP:
		publisher, err := producers.NewAMQPPublisher(log, &cfg.AMQP)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AMQP publisher: %w", err)
		}
		consumer, err := consumers.NewAMQPConsumer(log, &cfg.AMQP)
		if err != nil {
			publisher.Close()
			return nil, fmt.Errorf("failed to initialize AMQP consumer: %w", err)
		}
		return &broker{
			publisher: publisher,
			dlq:       publisher,
			consumer:  consumer,
			topic:     cfg.AMQP.StatusQueue,
			group:     cfg.Application.Name,
		}, nil

	default:
		publisher, err := producers.NewStatusEventProducer(ctx, log, &cfg.Kafka)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize status event producer: %w", err)
		}
		dlq, err := producers.NewDLQProducer(ctx, log, &cfg.Kafka)
		if err != nil {
			publisher.Close()
			return nil, fmt.Errorf("failed to initialize DLQ producer: %w", err)
		}
		return &broker{
			publisher: publisher,
			dlq:       dlq,
			consumer:  consumers.NewKafkaConsumer(ctx, log, &cfg.Kafka),
			topic:     cfg.Kafka.StatusTopic,
			group:     cfg.Kafka.ConsumerGroup,
		}, nil
	}
}

func (b *broker) Close(log *slog.Logger) {
	if err := b.consumer.Close(); err != nil {
		log.Error("Error closing consumer", "error", err)
	}
	if err := b.dlq.Close(); err != nil {
		log.Error("Error closing DLQ publisher", "error", err)
	}
	if err := b.publisher.Close(); err != nil {
		log.Error("Error closing status publisher", "error", err)
	}
}
