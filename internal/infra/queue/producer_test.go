package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

func TestProducerPublishesToRoutingKey(t *testing.T) {
	pub := &fakePublisher{}
	p := NewProducer(pub)
	at := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), LeadEvent{Type: EventReleased, Phone: "15551234567", Deleted: 1, OccurredAt: at})
	require.NoError(t, err)

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKeyReleased, pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "application/json", pub.msg.ContentType)

	var got LeadEvent
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, int64(1), got.Deleted)
	assert.Equal(t, "15551234567", got.Phone)
}

func TestProducerWrapsPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	err := NewProducer(pub).Publish(context.Background(), LeadEvent{Type: EventSwept})

	require.Error(t, err)
	assert.Equal(t, RoutingKeySwept, pub.key)
}

func TestRoutingKeyDefaultsToCaptured(t *testing.T) {
	assert.Equal(t, RoutingKeyCaptured, LeadEvent{Type: EventCaptured}.RoutingKey())
	assert.Equal(t, RoutingKeyCaptured, LeadEvent{}.RoutingKey())
}
