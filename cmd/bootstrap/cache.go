package bootstrap

import (
	"context"
	"log/slog"

	"hotel-reservation-engine/internal/handler/middleware"
	"hotel-reservation-engine/internal/infra/cache"
	"hotel-reservation-engine/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewRedis,
		fx.Annotate(
			NewRateLimiter,
			fx.As(new(middleware.RateLimiter)),
		),
	),
)

// NewRedis never fails startup. An unreachable server leaves a lazy client behind, so
// settings reads fall through to postgres and rate limiting fails open.
func NewRedis(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *redis.Client {
	client, cleanup, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable at startup", "addr", cfg.Redis.Addr, "error", err.Error())
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cleanup = func() { _ = client.Close() }
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})
	return client
}

func NewRateLimiter(rdb *redis.Client, cfg config.Config) *cache.TokenBucket {
	return cache.NewTokenBucket(rdb, cfg.Redis.RateLimitCapacity, cfg.Redis.RateLimitRefillRate)
}
