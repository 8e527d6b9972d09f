// Command notifier drains booking notifications from the broker and renders the
// email each one would send.
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"hotel-reservation-engine/internal/infra/messaging"
	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/usecase/shared"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := messaging.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, render(cfg.Booking.PublicBaseURL, logger), logger)
	logger.Info("notifier started", zap.String("queue", cfg.AMQP.Queue))

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
	logger.Info("notifier stopped")
}

// render stands in for an email sender: it logs the recipients and action links.
func render(baseURL string, logger *zap.Logger) messaging.Handler {
	return func(_ context.Context, ev shared.NotificationEvent) error {
		fields := []zap.Field{
			zap.String("event", string(ev.Type)),
			zap.String("reservation_id", ev.ReservationID.String()),
			zap.String("hotel_id", ev.HotelID.String()),
			zap.Time("check_in", ev.CheckIn),
			zap.Time("check_out", ev.CheckOut),
			zap.Int64("total", ev.Total),
		}
		if ev.OwnerID != nil {
			fields = append(fields, zap.String("owner_id", ev.OwnerID.String()))
		}
		if ev.UserID != nil {
			fields = append(fields, zap.String("user_id", ev.UserID.String()))
		}
		if ev.Reason != "" {
			fields = append(fields, zap.String("reason", ev.Reason))
		}
		for action, link := range messaging.EmailLinks(baseURL, ev) {
			fields = append(fields, zap.String("link_"+action, link))
		}
		logger.Info("notification", fields...)
		return nil
	}
}
