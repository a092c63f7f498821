package consumers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"

	"github.com/spendwise-tracker/internal/config"
	"github.com/spendwise-tracker/internal/platform/messaging/producers"
)

// AMQPConsumer implements Consumer on a RabbitMQ queue with manual acks.
// The topic passed to Subscribe is the queue name; groupID becomes the
// consumer tag.
type AMQPConsumer struct {
	logger  *slog.Logger
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewAMQPConsumer(logger *slog.Logger, cfg *config.AMQPConfig) (*AMQPConsumer, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if err := producers.DeclareQueues(channel, cfg); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	if err := channel.Qos(cfg.Prefetch, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set AMQP prefetch: %w", err)
	}

	return &AMQPConsumer{logger: logger, conn: conn, channel: channel}, nil
}

func (c *AMQPConsumer) Subscribe(ctx context.Context, queue string, tag string, handler MessageHandler) error {
	deliveries, err := c.channel.Consume(queue, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue %s: %w", queue, err)
	}

	c.logger.Info("Subscribed to AMQP queue", "queue", queue, "consumer_tag", tag)
	go consumeDeliveries(ctx, c.logger, queue, deliveries, handler)
	return nil
}

// consumeDeliveries acks handled deliveries and requeues failed ones until
// ctx is canceled or the channel closes.
func consumeDeliveries(ctx context.Context, logger *slog.Logger, queue string, deliveries <-chan amqp091.Delivery, handler MessageHandler) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Context canceled, stopping consumer", "queue", queue)
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("AMQP delivery channel closed", "queue", queue)
				return
			}

			if err := handler(ctx, []byte(d.MessageId), d.Body); err != nil {
				logger.Error("Failed to process message, requeueing",
					"queue", queue,
					"message_id", d.MessageId,
					"error", err,
				)
				if nackErr := d.Nack(false, true); nackErr != nil {
					logger.Error("Failed to nack message", "queue", queue, "error", nackErr)
				}
				continue
			}

			if err := d.Ack(false); err != nil {
				logger.Error("Failed to ack message", "queue", queue, "message_id", d.MessageId, "error", err)
			}
		}
	}
}

func (c *AMQPConsumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("Failed to close AMQP channel", "error", err)
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
