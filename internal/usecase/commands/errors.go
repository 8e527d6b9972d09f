package commands

import (
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/shared"
)

var (
	ErrHotelNotFound       = errs.NotFound("hotel not found")
	ErrRoomNotFound        = errs.NotFound("room not found")
	ErrReservationNotFound = errs.NotFound("reservation not found")
	ErrCouponNotFound      = shared.ErrCouponNotFound
	ErrNotHotelOwner       = errs.Authorization("caller does not own this hotel")
	ErrNotReservationGuest = errs.Authorization("caller is not the guest of this reservation")
	ErrCouponQuotaReached  = errs.Conflict("coupon usage limit reached")
	ErrConcurrentUpdate    = errs.Conflict("booking was modified concurrently")
)

// translate maps repository failures onto the caller-facing taxonomy.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsKind(err, infra.KindNotFound):
		return notFound
	case infra.IsKind(err, infra.KindConditionFailed):
		return ErrConcurrentUpdate
	default:
		return err
	}
}
