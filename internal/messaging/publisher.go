// Package messaging publishes progression events to RabbitMQ so downstream
// consumers (notifications, analytics) can react without coupling to the
// request path.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Progression event types.
const (
	EventTierUp       = "tier_up"
	EventBossDefeated = "boss_defeated"
)

// ProgressionEvent is the payload published on notable player milestones.
type ProgressionEvent struct {
	Type       string    `json:"type"`
	UserID     uuid.UUID `json:"user_id"`
	Topic      string    `json:"topic,omitempty"`
	LevelID    string    `json:"level_id,omitempty"`
	Tier       string    `json:"tier,omitempty"`
	XP         int       `json:"xp"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher is the outbound side the services depend on.
type EventPublisher interface {
	PublishProgressionEvent(ctx context.Context, event ProgressionEvent) error
}

var _ EventPublisher = (*rabbitMQPublisher)(nil)

type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQEventPublisher opens a channel on the connection and declares
// the durable event queue. The channel lives until the process stops.
func NewRabbitMQEventPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("event publisher: failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("event publisher: failed to declare queue %q: %w", queueName, err)
	}

	return &rabbitMQPublisher{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("EventPublisher"),
	}, nil
}

func (p *rabbitMQPublisher) PublishProgressionEvent(ctx context.Context, event ProgressionEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal progression event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for attempt := 1; attempt <= 3; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (default)
			p.queueName, // routing key
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        "codequest-server",
			},
		)
		if err == nil {
			p.logger.Debug("Published progression event",
				zap.String("type", event.Type),
				zap.Stringer("userID", event.UserID))
			return nil
		}
		p.logger.Warn("Failed to publish progression event",
			zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	return fmt.Errorf("failed to publish to queue %s after retries: %w", p.queueName, err)
}

// NopEventPublisher discards events. Used when RabbitMQ is not configured;
// milestones are still returned to the client, just not fanned out.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishProgressionEvent(context.Context, ProgressionEvent) error {
	return nil
}
