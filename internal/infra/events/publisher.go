// Package events publishes appointment audit events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
)

// Message is the JSON body published for every appointment event.
type Message struct {
	Action        string    `json:"action"`
	AppointmentID *uint     `json:"appointment_id,omitempty"`
	ActorID       *uint     `json:"actor_id,omitempty"`
	Metadata      any       `json:"metadata,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// Dialer opens a channel and returns the connection that owns it.
type Dialer func(url string) (Channel, io.Closer, error)

func DialAMQP(url string) (Channel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel open: %w", err)
	}
	return ch, conn, nil
}

// Publisher is an audit.Sink forwarding appointment events to a durable
// queue. The connection is opened on first use and reopened after it drops.
type Publisher struct {
	url   string
	queue string
	dial  Dialer
	log   *zap.Logger

	mu   sync.Mutex
	ch   Channel
	conn io.Closer
}

func NewPublisher(url, queue string, dial Dialer, log *zap.Logger) *Publisher {
	if dial == nil {
		dial = DialAMQP
	}
	return &Publisher{url: url, queue: queue, dial: dial, log: log}
}

func (p *Publisher) Write(ctx context.Context, ev audit.Event) error {
	if ev.Entity != "appointment" {
		return nil
	}

	body, err := json.Marshal(Message{
		Action:        ev.Action,
		AppointmentID: ev.EntityID,
		ActorID:       ev.UserID,
		Metadata:      ev.Metadata,
		OccurredAt:    ev.At,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.At,
			Type:         ev.Action,
			Body:         body,
		},
	)
	if err != nil {
		p.reset()
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (p *Publisher) channel() (Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	ch, conn, err := p.dial(p.url)
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	p.log.Info("rabbitmq publisher connected", zap.String("queue", p.queue))
	p.ch, p.conn = ch, conn
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

var _ audit.Sink = (*Publisher)(nil)
