package shared

import (
	"context"

	"hotel-reservation-engine/internal/domain/coupon"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCouponNotFound = errs.NotFound("coupon not found")

// LoadCoupon resolves a coupon by id or by code. It returns nil, nil when neither is
// given. Codes are normalized before lookup.
func LoadCoupon(ctx context.Context, tx Tx, id *uuid.UUID, code *string) (*coupon.Coupon, error) {
	var (
		c   *coupon.Coupon
		err error
	)
	switch {
	case id != nil:
		c, err = tx.Coupons().FindByID(ctx, *id)
	case code != nil:
		normalized, cerr := coupon.NewCouponCode(*code)
		if cerr != nil {
			return nil, cerr
		}
		c, err = tx.Coupons().FindByCode(ctx, normalized)
	default:
		return nil, nil
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, ErrCouponNotFound
	}
	return c, err
}
