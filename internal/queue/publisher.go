package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends activity events to a durable RabbitMQ queue.
// Publishing is best-effort: errors are logged and returned so
// callers can ignore them without failing the request.
type Publisher struct {
	url   string
	queue string
}

// NewPublisher builds a publisher for the given broker URL and
// queue name. Returns nil when url is empty, which disables
// activity events entirely.
func NewPublisher(url, queueName string) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{url: url, queue: queueName}
}

// Publish declares the queue (idempotent) and sends one persistent
// JSON message. A nil receiver is a no-op so wiring stays simple
// when the broker is not configured.
func (p *Publisher) Publish(ctx context.Context, ev ActivityEvent) error {
	if p == nil {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("activity: dial broker failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("activity: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		log.Printf("activity: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		log.Printf("activity: publish failed: %v", err)
		return err
	}
	return nil
}
