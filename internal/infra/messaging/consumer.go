package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hotel-reservation-engine/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
	prefetch       = 10
)

var errDeliveriesClosed = errors.New("deliveries channel closed")

type Handler func(ctx context.Context, ev shared.NotificationEvent) error

// Consumer drains the notification queue until ctx ends, reconnecting with backoff.
// A message its handler rejects is dropped rather than requeued.
type Consumer struct {
	url     string
	queue   string
	handler Handler
	logger  *zap.Logger
}

func NewConsumer(url, queue string, handler Handler, logger *zap.Logger) *Consumer {
	return &Consumer{
		url:     url,
		queue:   queue,
		handler: handler,
		logger:  logger.With(zap.String("queue", queue)),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("broker dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = initialBackoff

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.logger.Warn("set QoS failed", zap.Error(err))
	}
	if _, err := declareQueue(ch, c.queue); err != nil {
		return err
	}

	msgs, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	c.logger.Info("consuming")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			c.deliver(ctx, d)
		}
	}
}

func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery) {
	var ev shared.NotificationEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		c.logger.Error("undecodable message", zap.Error(err), zap.String("message_id", d.MessageId))
		_ = d.Nack(false, false)
		return
	}
	if err := c.handler(ctx, ev); err != nil {
		c.logger.Error("handler failed",
			zap.Error(err),
			zap.String("event", string(ev.Type)),
			zap.String("reservation_id", ev.ReservationID.String()))
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
