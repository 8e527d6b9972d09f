package repository

import (
	"context"
	"log/slog"

	"hotel-reservation-engine/internal/domain/coupon"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/db"
	"hotel-reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const couponColumns = `id, code, discount, expiry, usage_limit, used, enabled, hotel_id, owner_id`

type CouponRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewCouponRepository(dbtx db.DBTX, logger *slog.Logger) *CouponRepository {
	return &CouponRepository{
		db:     dbtx,
		logger: logger.With(slog.String("repository", "coupon")),
	}
}

func (r *CouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	return r.findOne(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id)
}

func (r *CouponRepository) FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error) {
	return r.findOne(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code.String())
}

// IncrementUsed consumes one use in a single statement. A coupon already at its limit
// matches no row and reports CONDITION_FAILED.
func (r *CouponRepository) IncrementUsed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE coupons SET used = used + 1, updated_at = now()
		 WHERE id = $1 AND (usage_limit = 0 OR used < usage_limit)`, id)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to increment coupon usage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindConditionFailed, "coupon usage limit reached", nil)
	}
	return nil
}

func (r *CouponRepository) DecrementUsed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE coupons SET used = GREATEST(used - 1, 0), updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to decrement coupon usage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "coupon not found", nil)
	}
	return nil
}

func (r *CouponRepository) findOne(ctx context.Context, query string, arg any) (*coupon.Coupon, error) {
	c, err := scanCoupon(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "coupon not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find coupon", err)
	}
	return c, nil
}

func scanCoupon(row pgx.Row) (*coupon.Coupon, error) {
	var (
		p                coupon.Params
		expiry           pgtype.Date
		hotelID, ownerID pgtype.UUID
	)
	if err := row.Scan(&p.ID, &p.Code, &p.Discount, &expiry, &p.UsageLimit, &p.Used,
		&p.Enabled, &hotelID, &ownerID); err != nil {
		return nil, err
	}
	if t := pgconv.DatePtrFromPgtype(expiry); t != nil {
		d := pricing.DateOf(*t)
		p.Expiry = &d
	}
	p.HotelID = pgconv.UUIDPtrFromPgtype(hotelID)
	p.OwnerID = pgconv.UUIDPtrFromPgtype(ownerID)
	return coupon.NewCoupon(p)
}
