package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventCaptured = "lead.captured"
	EventReleased = "lead.released"
	EventSwept    = "lead.swept"
)

// LeadEvent é publicado a cada mudança no ciclo de vida de um preliminar.
type LeadEvent struct {
	Type       string    `json:"type"`
	LeadID     string    `json:"lead_id,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	LandingURL string    `json:"landing_url,omitempty"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Created    bool      `json:"created,omitempty"`
	Deleted    int64     `json:"deleted,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e LeadEvent) RoutingKey() string {
	switch e.Type {
	case EventReleased:
		return RoutingKeyReleased
	case EventSwept:
		return RoutingKeySwept
	default:
		return RoutingKeyCaptured
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, event LeadEvent) error
}

// Publisher é o subconjunto de *amqp.Channel usado pelo producer.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) Publish(ctx context.Context, event LeadEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao converter evento: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		event.RoutingKey(),
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}

// NoopProducer descarta os eventos quando o RabbitMQ não está configurado.
type NoopProducer struct{}

func (NoopProducer) Publish(context.Context, LeadEvent) error { return nil }
