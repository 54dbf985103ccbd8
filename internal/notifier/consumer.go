package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"blog_publisher/internal/domain"
	"blog_publisher/internal/publisher"
)

// Dispatcher fans one publish event out to all subscribers.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *domain.PublishedEvent) *domain.DispatchStats
}

// Consumer drains the publish-event queue and hands each event to the
// dispatcher. Messages are auto-acked on delivery, so every event gets at
// most one dispatch attempt; a crash mid-dispatch drops the event instead of
// redelivering it to subscribers twice.
type Consumer struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	queue      string
	dispatcher Dispatcher
	logger     *slog.Logger
}

func NewConsumer(cfg publisher.Config, dispatcher Dispatcher, logger *slog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declarations mirror the publisher's so either side may start first.
	err = ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("consuming publish events", "queue", cfg.QueueName)

	return &Consumer{
		conn:       conn,
		channel:    ch,
		queue:      q.Name,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.Consume(
		c.queue,
		"",
		true, // auto-ack: at most one dispatch attempt per event
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.handle(ctx, delivery)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, delivery amqp.Delivery) {
	var event domain.PublishedEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		c.logger.Error("failed to decode publish event", "error", err)
		return
	}

	c.dispatcher.Dispatch(ctx, &event)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
