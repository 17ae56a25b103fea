package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// ErrDeliveriesClosed is returned by Consumer.Run when the broker closes the delivery stream.
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// Consumer reads mail jobs from the queue and delivers them with a MailSender.
type Consumer struct {
	ch     channel
	queue  string
	sender model.MailSender
	logger *logger.Logger
}

func NewConsumer(ch channel, queue string, sender model.MailSender, logger *logger.Logger) (*Consumer, error) {
	if err := declare(ch, queue); err != nil {
		return nil, err
	}
	return &Consumer{ch: ch, queue: queue, sender: sender, logger: logger}, nil
}

// Run processes jobs one at a time until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("Mail consumer: started",
		"queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Mail consumer: stopping")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var job Job
	if err := json.Unmarshal(d.Body, &job); err != nil {
		c.logger.Error("Mail consumer: dropping malformed job",
			"error", err.Error())
		c.nack(d, false)
		return
	}

	if job.Purpose != PurposePasswordReset {
		c.logger.Error("Mail consumer: dropping job with unknown purpose",
			"purpose", job.Purpose)
		c.nack(d, false)
		return
	}

	if err := c.sender.SendPasswordReset(ctx, job.PasswordResetMail); err != nil {
		// A job is retried once; a second failure drops it.
		requeue := !d.Redelivered
		c.logger.Error("Mail consumer: failed to send email",
			"to", job.To,
			"requeue", requeue,
			"error", err.Error())
		c.nack(d, requeue)
		return
	}

	if err := d.Ack(false); err != nil {
		c.logger.Error("Mail consumer: failed to ack job",
			"error", err.Error())
		return
	}

	c.logger.Info("Mail consumer: email sent",
		"to", job.To)
}

func (c *Consumer) nack(d amqp.Delivery, requeue bool) {
	if err := d.Nack(false, requeue); err != nil {
		c.logger.Error("Mail consumer: failed to nack job",
			"error", err.Error())
	}
}
