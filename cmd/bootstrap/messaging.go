package bootstrap

import (
	"context"
	"log/slog"

	"hotel-reservation-engine/internal/infra/messaging"
	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewNotifier,
	),
)

// NewNotifier publishes to the broker, or only logs events when it cannot be reached.
func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.Notifier {
	pub, err := messaging.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger)
	if err != nil {
		logger.Warn("broker unavailable, notifications will only be logged", "error", err.Error())
		return messaging.NewLogNotifier(logger)
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub
}
