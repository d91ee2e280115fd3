package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	runctx "github.com/baechuer/useradmin/internal/pkg/context"
)

const (
	DefaultExchange = "city.events"

	RoutingKeyUserUpdated = "admin.user.updated"

	// Upper bound on waiting for the broker confirm.
	publishWait = 2 * time.Second
)

// UserUpdatedEvent announces an out-of-band change to a user record.
type UserUpdatedEvent struct {
	RunID      string            `json:"run_id"`
	Action     string            `json:"action"`
	UserID     string            `json:"user_id"`
	Email      string            `json:"email"`
	Fields     map[string]string `json:"fields"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
}

func NewPublisher(url string) (*Publisher, error) {
	p := &Publisher{
		url:      url,
		exchange: DefaultExchange,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetConn()
	return nil
}

func (p *Publisher) PublishUserUpdated(ctx context.Context, evt UserUpdatedEvent) error {
	msg, err := buildPublishing(ctx, evt, time.Now())
	if err != nil {
		return err
	}
	return p.publish(ctx, RoutingKeyUserUpdated, msg)
}

// ---- internal ----

func buildPublishing(ctx context.Context, evt UserUpdatedEvent, now time.Time) (amqp.Publishing, error) {
	if evt.RunID == "" {
		evt.RunID = runctx.GetRunID(ctx)
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = now.UTC()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal payload: %w", err)
	}

	headers := amqp.Table{}
	if evt.RunID != "" {
		headers["X-Run-ID"] = evt.RunID
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Headers:      headers,
		Body:         body,
	}, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	// Declare topic exchange (idempotent).
	if err := ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return nil
	}
	return p.connect()
}

func (p *Publisher) publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		p.resetConn()
		return fmt.Errorf("publish failed: %w", err)
	}

	select {
	case conf := <-p.confirmCh:
		if !conf.Ack {
			return fmt.Errorf("rabbitmq nack: key=%s deliveryTag=%d", routingKey, conf.DeliveryTag)
		}
		return nil
	case <-time.After(publishWait):
		return fmt.Errorf("rabbitmq publish timeout: key=%s", routingKey)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
