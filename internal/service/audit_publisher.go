// Package service provides outbound integrations used by the handlers.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/todo-app/internal/queue"
)

// AuditPublisher publishes audit events to RabbitMQ. Each Publish dials its
// own connection, so a broker outage only costs the event being sent.
type AuditPublisher struct {
	URL string
	Log *logrus.Logger
}

func NewAuditPublisher(url string, log *logrus.Logger) *AuditPublisher {
	return &AuditPublisher{URL: url, Log: log}
}

// Publish sends ev to the durable audit queue as a persistent JSON message.
func (p *AuditPublisher) Publish(ctx context.Context, ev queue.AuditEvent) error {
	msg, err := newPublishing(ev, time.Now())
	if err != nil {
		return err
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(3 * time.Second),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.AuditQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	if err := ch.PublishWithContext(ctx, "", queue.AuditQueue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.Log.WithField("event", ev.Type).Debug("audit event published")
	return nil
}

func newPublishing(ev queue.AuditEvent, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal audit event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		Type:         ev.Type,
		Body:         body,
	}, nil
}
