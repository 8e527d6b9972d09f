//go:build unit || e2e

package builder

import (
	"hotel-reservation-engine/internal/domain/coupon"
	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/room"

	"github.com/google/uuid"
)

type HotelBuilder struct {
	ID        uuid.UUID
	Name      string
	Status    hotel.Status
	OwnerID   *uuid.UUID
	BasePrice pricing.Money
	Policy    pricing.Policy
}

func NewHotelBuilder() *HotelBuilder {
	owner := uuid.New()
	return &HotelBuilder{
		ID:        uuid.New(),
		Name:      "Harbor View",
		Status:    hotel.StatusApproved,
		OwnerID:   &owner,
		BasePrice: 2400,
		Policy: pricing.Policy{
			NormalRate:  1000,
			WeekendRate: 1500,
		},
	}
}

func (b *HotelBuilder) With(mutate func(*HotelBuilder)) *HotelBuilder {
	mutate(b)
	return b
}

func (b *HotelBuilder) BuildDomain() *hotel.Hotel {
	h, err := hotel.Reconstruct(b.ID, b.Name, b.Status, b.OwnerID, b.BasePrice, b.Policy)
	if err != nil {
		panic(err)
	}
	return h
}

// BuildRoom returns a listed, unblocked room of roomType belonging to the hotel.
func (b *HotelBuilder) BuildRoom(roomType string) *room.Room {
	return room.Reconstruct(uuid.New(), b.ID, roomType, b.BasePrice, 2, true, false)
}

type CouponBuilder struct {
	Params coupon.Params
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{Params: coupon.Params{
		ID:       uuid.New(),
		Code:     "WELCOME10",
		Discount: 10,
		Enabled:  true,
	}}
}

func (b *CouponBuilder) With(mutate func(*coupon.Params)) *CouponBuilder {
	mutate(&b.Params)
	return b
}

func (b *CouponBuilder) BuildDomain() *coupon.Coupon {
	c, err := coupon.NewCoupon(b.Params)
	if err != nil {
		panic(err)
	}
	return c
}
