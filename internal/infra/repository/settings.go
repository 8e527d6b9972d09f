package repository

import (
	"context"
	"log/slog"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/db"
	"hotel-reservation-engine/internal/pkg/pgconv"
	"hotel-reservation-engine/internal/usecase/shared"
)

type SettingsRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewSettingsRepository(dbtx db.DBTX, logger *slog.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:     dbtx,
		logger: logger.With(slog.String("repository", "settings")),
	}
}

func (r *SettingsRepository) Get(ctx context.Context) (shared.Settings, error) {
	var s shared.Settings
	err := r.db.QueryRow(ctx,
		`SELECT hold_minutes, tax_rate::float8 FROM settings WHERE id = 1`).Scan(&s.HoldMinutes, &s.TaxRate)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return shared.Settings{}, infra.WrapRepoErr(r.logger, infra.KindNotFound, "settings row missing", err)
		}
		return shared.Settings{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to read settings", err)
	}
	return s, nil
}
