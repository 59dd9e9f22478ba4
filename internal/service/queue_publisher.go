// Package service holds outbound integrations. The event publisher sends
// audit events to RabbitMQ; failures are logged and swallowed so a broker
// outage never fails the originating request.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"labtasks-backend/internal/queue"
)

// EventPublisher publishes audit events. A nil publisher is valid and
// drops events, which keeps handlers free of broker-awareness.
type EventPublisher struct {
	url string
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{url: queue.BrokerURL()}
}

// Publish sends one event to the durable audit queue. Connections are
// opened per call; admin mutations and registrations are infrequent
// enough that pooling is not worth the reconnect handling.
func (p *EventPublisher) Publish(ctx context.Context, ev queue.Event) {
	if p == nil {
		return
	}
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.AuditQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.AuditQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
	}
}
