package integration

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"github.com/recordpair/review-service/internal/models"
	"github.com/rs/zerolog"
)

// EventPublisher публикует события workflow для внешних потребителей.
// Сервис работает и без брокера: в этом случае используется noop-реализация.
type EventPublisher interface {
	PublishPairCreated(ctx context.Context, event *models.PairCreatedEvent) error
	PublishReviewCompleted(ctx context.Context, event *models.ReviewCompletedEvent) error
	Close() error
}

type rabbitMQPublisher struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	exchange   string
	routingKey string
	logger     zerolog.Logger
}

func NewRabbitMQPublisher(url, exchange, routingKey, queueName string, logger zerolog.Logger) (EventPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		queue.Name, // queue name
		routingKey, // routing key
		exchange,   // exchange
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	logger.Info().
		Str("exchange", exchange).
		Str("queue", queueName).
		Msg("Connected to RabbitMQ")

	return &rabbitMQPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

func (c *rabbitMQPublisher) publish(ctx context.Context, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		c.exchange,
		c.routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Type:        eventType,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	c.logger.Debug().Str("type", eventType).Msg("Event published")
	return nil
}

func (c *rabbitMQPublisher) PublishPairCreated(ctx context.Context, event *models.PairCreatedEvent) error {
	return c.publish(ctx, "pair.created", event)
}

func (c *rabbitMQPublisher) PublishReviewCompleted(ctx context.Context, event *models.ReviewCompletedEvent) error {
	return c.publish(ctx, "review.completed", event)
}

func (c *rabbitMQPublisher) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// noopPublisher используется, когда брокер выключен или недоступен.
type noopPublisher struct{}

func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) PublishPairCreated(context.Context, *models.PairCreatedEvent) error {
	return nil
}

func (noopPublisher) PublishReviewCompleted(context.Context, *models.ReviewCompletedEvent) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
