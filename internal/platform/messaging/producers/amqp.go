package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/spendwise-tracker/internal/config"
)

const amqpPublishTimeout = 5 * time.Second

// AMQPPublisher publishes status events and dead letters to RabbitMQ queues
type AMQPPublisher struct {
	logger   *slog.Logger
	conn     *amqp091.Connection
	channel  AMQPChannel
	exchange string
	queue    string
	dlqQueue string

	closeOnce sync.Once
	closeErr  error
}

// NewAMQPPublisher dials the broker and declares the status and DLQ queues.
// With the default exchange the routing key is the queue name.
func NewAMQPPublisher(logger *slog.Logger, cfg *config.AMQPConfig) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if err := DeclareQueues(channel, cfg); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{
		logger:   logger,
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
		queue:    cfg.StatusQueue,
		dlqQueue: cfg.DLQQueue,
	}, nil
}

// DeclareQueues declares the durable status and DLQ queues and, for a named
// exchange, binds them by queue name.
func DeclareQueues(channel *amqp091.Channel, cfg *config.AMQPConfig) error {
	if cfg.Exchange != "" {
		if err := channel.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
		}
	}

	for _, name := range []string{cfg.StatusQueue, cfg.DLQQueue} {
		if name == "" {
			continue
		}
		if _, err := channel.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
		if cfg.Exchange != "" {
			if err := channel.QueueBind(name, name, cfg.Exchange, false, nil); err != nil {
				return fmt.Errorf("failed to bind queue %s: %w", name, err)
			}
		}
	}
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, queue, key string, body []byte, headers amqp091.Table) error {
	ctx, cancel := context.WithTimeout(ctx, amqpPublishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx, p.exchange, queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    key,
		Timestamp:    time.Now(),
		Headers:      headers,
		Body:         body,
	})
}

// Publish sends a status event to the status queue
func (p *AMQPPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	if err := p.publish(ctx, p.queue, key, body, nil); err != nil {
		p.logger.Error("Failed to publish status event", "queue", p.queue, "key", key, "error", err)
		return fmt.Errorf("failed to publish status event to %s: %w", p.queue, err)
	}

	p.logger.Debug("Published status event", "queue", p.queue, "key", key)
	return nil
}

// PublishToDLQ sends an unprocessable message to the DLQ queue
func (p *AMQPPublisher) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	if p.dlqQueue == "" {
		return ErrDLQDisabled
	}

	body, err := newDeadLetter(key, originalMessageValue, reason)
	if err != nil {
		return err
	}

	if err := p.publish(ctx, p.dlqQueue, key, body, amqp091.Table{"dlq-reason": reason}); err != nil {
		p.logger.Error("Failed to publish message to DLQ", "queue", p.dlqQueue, "key", key, "error", err)
		return fmt.Errorf("failed to publish message to DLQ %s: %w", p.dlqQueue, err)
	}

	p.logger.Info("Published message to DLQ", "queue", p.dlqQueue, "key", key, "reason", reason)
	return nil
}

// Close releases the channel and connection. The publisher serves as both
// event and DLQ publisher, so repeated calls are no-ops.
func (p *AMQPPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.logger.Info("Closing AMQP publisher", "queue", p.queue)
		if p.channel != nil {
			if err := p.channel.Close(); err != nil {
				p.logger.Warn("Failed to close AMQP channel", "error", err)
			}
		}
		if p.conn != nil {
			if err := p.conn.Close(); err != nil {
				p.closeErr = fmt.Errorf("failed to close AMQP connection: %w", err)
			}
		}
	})
	return p.closeErr
}
