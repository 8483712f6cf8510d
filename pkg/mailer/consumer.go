package mailer

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Channel is the subset of *amqp.Channel the consumer needs.
type Channel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
}

// Consumer drains an email queue into a Sender. Tag names the AMQP
// consumer and must be non-empty so Stop can cancel it.
type Consumer struct {
	Ch      Channel
	Queue   string
	Tag     string
	Sender  Sender
	Logger  *logrus.Logger
	Timeout time.Duration // per send, 15s when zero
}

var errNoTag = errors.New("consumer tag is required")

// Run consumes until the delivery channel closes, which happens after Stop
// or when the channel dies.
func (c *Consumer) Run(ctx context.Context) error {
	if c.Tag == "" {
		return errNoTag
	}
	msgs, err := c.Ch.Consume(c.Queue, c.Tag, false, false, false, false, nil)
	if err != nil {
		return err
	}
	for msg := range msgs {
		c.handle(ctx, msg)
	}
	return nil
}

// Stop cancels the subscription registered by Run.
func (c *Consumer) Stop() error {
	return c.Ch.Cancel(c.Tag, false)
}

func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outcome, err := Process(sctx, c.Sender, msg.Body)
	entry := logrus.NewEntry(c.logger()).WithField("delivery_tag", msg.DeliveryTag)
	switch outcome {
	case Ack:
		_ = msg.Ack(false)
		entry.Debug("email sent")
	case Requeue:
		entry.WithError(err).Warn("send failed, requeueing")
		_ = msg.Nack(false, true)
	default:
		entry.WithError(err).Error("dropping email job")
		_ = msg.Nack(false, false)
	}
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}()

func (c *Consumer) logger() *logrus.Logger {
	if c.Logger == nil {
		return discard
	}
	return c.Logger
}
