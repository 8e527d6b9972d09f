package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends notification events to a durable queue as persistent JSON. The
// channel is reopened, and the connection redialed, after the broker drops them.
type Publisher struct {
	url    string
	queue  string
	logger *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url, queue string, logger *slog.Logger) (*Publisher, error) {
	p := &Publisher{
		url:    url,
		queue:  queue,
		logger: logger.With(slog.String("component", "amqp_publisher")),
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Publish(ctx context.Context, ev shared.NotificationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errs.Wrap(err, "marshal notification event")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		if err := p.connectLocked(); err != nil {
			return err
		}
	}

	err = p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Type:         string(ev.Type),
			MessageId:    ev.ReservationID.String() + ":" + string(ev.Type),
			Body:         body,
		})
	if err != nil {
		return errs.Wrap(err, "publish notification event")
	}
	p.logger.Debug("notification published",
		slog.String("event", string(ev.Type)),
		slog.String("reservation_id", ev.ReservationID.String()))
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (p *Publisher) connectLocked() error {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return errs.Wrap(err, "dial broker")
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return errs.Wrap(err, "open channel")
	}
	if _, err := declareQueue(ch, p.queue); err != nil {
		_ = ch.Close()
		return err
	}
	p.ch = ch
	return nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, errs.Wrap(err, "declare queue "+name)
	}
	return q, nil
}

// LogNotifier stands in when no broker is reachable. Events are only logged.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With(slog.String("component", "log_notifier"))}
}

func (n *LogNotifier) Publish(_ context.Context, ev shared.NotificationEvent) error {
	n.logger.Info("notification (no broker)",
		slog.String("event", string(ev.Type)),
		slog.String("reservation_id", ev.ReservationID.String()))
	return nil
}
