package components

import (
	"log/slog"
	"time"

	"hotel-reservation-engine/internal/infra/cache"
	"hotel-reservation-engine/internal/infra/db"
	"hotel-reservation-engine/internal/infra/readstore"
	"hotel-reservation-engine/internal/infra/repository"
	"hotel-reservation-engine/internal/infra/uow"
	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/usecase/queries"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationViewRepo)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			NewUnitOfWork,
			fx.As(new(shared.UnitOfWork)),
		),
		// Booking thread
		fx.Annotate(
			repository.NewMessageRepository,
			fx.As(new(shared.MessageThread)),
		),
		// Settings, read through redis
		fx.Annotate(
			NewSettingsReader,
			fx.As(new(shared.SettingsReader)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewUnitOfWork(pool *pgxpool.Pool, cfg config.Config, logger *slog.Logger) *uow.PostgresUoW {
	timeout := cfg.DB.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return uow.NewPostgresUoW(pool, timeout, logger)
}

func NewSettingsReader(dbtx db.DBTX, rdb *redis.Client, cfg config.Config, logger *slog.Logger) *cache.CachedSettings {
	return cache.NewCachedSettings(repository.NewSettingsRepository(dbtx, logger), rdb, cfg.Redis.SettingsTTL, logger)
}
