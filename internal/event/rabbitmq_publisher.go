package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"lunchly/internal/infrastructure/monitoring"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publisherAppID = "lunchly"

type RabbitMQEventPublisher struct {
	conn         *amqp.Connection
	exchangeName string
	logger       *slog.Logger
}

var _ Publisher = (*RabbitMQEventPublisher)(nil)

func NewRabbitMQEventPublisher(conn *amqp.Connection, exchangeName string, logger *slog.Logger) (*RabbitMQEventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	if exchangeName == "" {
		return nil, fmt.Errorf("RabbitMQ exchange name cannot be empty")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	tempCh, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary channel for exchange declaration: %w", err)
	}
	defer tempCh.Close()

	err = tempCh.ExchangeDeclare(
		exchangeName,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}
	logger.Info("Ensured RabbitMQ exchange exists", "exchange", exchangeName, "type", amqp.ExchangeTopic)

	return &RabbitMQEventPublisher{
		conn:         conn,
		exchangeName: exchangeName,
		logger:       logger.With("component", "RabbitMQEventPublisher", "exchange", exchangeName),
	}, nil
}

func (p *RabbitMQEventPublisher) PublishCustomerCreated(ctx context.Context, event CustomerEvent) error {
	return p.publish(ctx, RoutingKeyCustomerCreated, event)
}

func (p *RabbitMQEventPublisher) PublishCustomerUpdated(ctx context.Context, event CustomerEvent) error {
	return p.publish(ctx, RoutingKeyCustomerUpdated, event)
}

func (p *RabbitMQEventPublisher) PublishReservationCreated(ctx context.Context, event ReservationEvent) error {
	return p.publish(ctx, RoutingKeyReservationCreated, event)
}

func (p *RabbitMQEventPublisher) publish(ctx context.Context, routingKey string, payload any) error {
	logCtx := p.logger.With(slog.String("routingKey", routingKey))

	msg, err := newPublishing(payload, time.Now())
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to marshal event payload to JSON", slog.Any("error", err))
		monitoring.RecordEventPublished(routingKey, "error")
		return err
	}

	channel, err := p.conn.Channel()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to open RabbitMQ channel", slog.Any("error", err))
		monitoring.RecordEventPublished(routingKey, "error")
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	logCtx.DebugContext(ctx, "Publishing message", "bodySize", len(msg.Body))

	if err := channel.PublishWithContext(ctx, p.exchangeName, routingKey, false, false, msg); err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish message to RabbitMQ", slog.Any("error", err))
		monitoring.RecordEventPublished(routingKey, "error")
		return fmt.Errorf("failed to publish message: %w", err)
	}

	monitoring.RecordEventPublished(routingKey, "ok")
	logCtx.InfoContext(ctx, "Successfully published message")
	return nil
}

func newPublishing(payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		MessageId:    uuid.NewString(),
		Body:         body,
		AppId:        publisherAppID,
	}, nil
}
