package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sethvargo/go-retry"

	"github.com/dtroode/blog-server/internal/model"
)

// PurposePasswordReset tags jobs carrying a password reset mail.
const PurposePasswordReset = "password_reset"

// Job is the queued form of an outbound mail.
type Job struct {
	model.PasswordResetMail
	Purpose string `json:"purpose"`
}

// channel is the subset of *amqp.Channel used here.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Close() error
}

// Dial connects to RabbitMQ, retrying while the broker starts, and opens a channel.
func Dial(ctx context.Context, url string) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	backoff := retry.WithMaxRetries(5, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := amqp.Dial(url)
		if err != nil {
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return conn, ch, nil
}

func declare(ch channel, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return nil
}

var _ model.MailSender = (*QueuePublisher)(nil)

// QueuePublisher hands mails to the mailer worker through a durable queue.
type QueuePublisher struct {
	mu    sync.Mutex
	ch    channel
	queue string
}

func NewQueuePublisher(ch channel, queue string) (*QueuePublisher, error) {
	if err := declare(ch, queue); err != nil {
		return nil, err
	}
	return &QueuePublisher{ch: ch, queue: queue}, nil
}

func (p *QueuePublisher) SendPasswordReset(ctx context.Context, mail model.PasswordResetMail) error {
	body, err := json.Marshal(Job{PasswordResetMail: mail, Purpose: PurposePasswordReset})
	if err != nil {
		return fmt.Errorf("failed to encode mail job: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish mail job: %w", err)
	}
	return nil
}
