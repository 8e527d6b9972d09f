package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/db"
	"hotel-reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const hotelColumns = `id, name, status, owner_id, base_price, normal_rate, weekend_rate,
	extra_hour_rate, cancellation_hour_rate, seasonal_rates, special_dates`

type HotelRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewHotelRepository(dbtx db.DBTX, logger *slog.Logger) *HotelRepository {
	return &HotelRepository{
		db:     dbtx,
		logger: logger.With(slog.String("repository", "hotel")),
	}
}

func (r *HotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*hotel.Hotel, error) {
	row := r.db.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id = $1`, id)

	h, err := scanHotel(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "hotel not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find hotel by ID", err)
	}
	return h, nil
}

func scanHotel(row pgx.Row) (*hotel.Hotel, error) {
	var (
		id                                          uuid.UUID
		name, status                                string
		ownerID                                     pgtype.UUID
		base, normal, weekend, extraHour, cancelFee int64
		seasonalRaw, specialRaw                     []byte
	)
	if err := row.Scan(&id, &name, &status, &ownerID, &base, &normal, &weekend,
		&extraHour, &cancelFee, &seasonalRaw, &specialRaw); err != nil {
		return nil, err
	}

	policy := pricing.Policy{
		NormalRate:           pricing.Money(normal),
		WeekendRate:          pricing.Money(weekend),
		ExtraHourRate:        pricing.Money(extraHour),
		CancellationHourRate: pricing.Money(cancelFee),
	}
	if err := json.Unmarshal(seasonalRaw, &policy.Seasonal); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(specialRaw, &policy.Special); err != nil {
		return nil, err
	}

	st, err := hotel.NewStatus(status)
	if err != nil {
		return nil, err
	}
	return hotel.Reconstruct(id, name, st, pgconv.UUIDPtrFromPgtype(ownerID), pricing.Money(base), policy)
}
