package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"seller-onboarding.backend/internal/domain/entities"
	"seller-onboarding.backend/pkg/logger"
)

// RoutingKeyOnboardingCompleted is the routing key of the completion event
const RoutingKeyOnboardingCompleted = "onboarding.completed"

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

var dialAMQP = func(url string) (*amqp.Connection, error) {
	return amqp.Dial(url)
}

// AMQPPublisher publishes onboarding events to a RabbitMQ topic exchange
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	mu       sync.Mutex
}

// NewAMQPPublisher dials RabbitMQ and declares the durable topic exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := dialAMQP(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	logger.Info(context.Background(), "RabbitMQ publisher ready", zap.String("exchange", exchange))
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) PublishOnboardingCompleted(ctx context.Context, event *entities.OnboardingCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyOnboardingCompleted, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		MessageId:    event.EventID.String(),
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", RoutingKeyOnboardingCompleted, err)
	}
	return nil
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher drops events; used when RabbitMQ is not configured
type NoopPublisher struct{}

func (NoopPublisher) PublishOnboardingCompleted(ctx context.Context, event *entities.OnboardingCompletedEvent) error {
	logger.Debug(ctx, "Event publishing disabled", zap.String("routing_key", RoutingKeyOnboardingCompleted))
	return nil
}

func (NoopPublisher) Close() error { return nil }
