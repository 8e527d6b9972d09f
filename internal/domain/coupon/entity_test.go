//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"hotel-reservation-engine/internal/domain/coupon"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/pkg/ptr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoupon_Resolve(t *testing.T) {
	hotelID := uuid.New()
	checkIn := time.Date(2030, 8, 2, 14, 0, 0, 0, time.UTC)
	w, err := stay.New(checkIn, checkIn.Add(24*time.Hour))
	require.NoError(t, err)

	valid := func() coupon.Params {
		return coupon.Params{Code: "SUMMER10", Discount: 10, Enabled: true}
	}

	testCases := []struct {
		name   string
		mutate func(*coupon.Params)
		errIs  error
	}{
		{name: "open coupon accepted", mutate: func(*coupon.Params) {}},
		{name: "disabled", mutate: func(p *coupon.Params) { p.Enabled = false }, errIs: coupon.ErrCouponDisabled},
		{name: "quota exhausted", mutate: func(p *coupon.Params) { p.UsageLimit, p.Used = 2, 2 }, errIs: coupon.ErrQuotaExhausted},
		{name: "quota exhausted even when scoped and dated correctly", mutate: func(p *coupon.Params) {
			p.UsageLimit, p.Used = 2, 2
			p.HotelID = &hotelID
			p.Expiry = ptr.Of(pricing.DateOf(checkIn))
		}, errIs: coupon.ErrQuotaExhausted},
		{name: "quota remaining", mutate: func(p *coupon.Params) { p.UsageLimit, p.Used = 2, 1 }},
		{name: "unlimited ignores used", mutate: func(p *coupon.Params) { p.UsageLimit, p.Used = 0, 500 }},
		{name: "other hotel", mutate: func(p *coupon.Params) { p.HotelID = ptr.Of(uuid.New()) }, errIs: coupon.ErrWrongHotel},
		{name: "same hotel", mutate: func(p *coupon.Params) { p.HotelID = &hotelID }},
		{name: "expiry equals check-in date", mutate: func(p *coupon.Params) { p.Expiry = ptr.Of(pricing.DateOf(checkIn)) }},
		{name: "expiry after check-in date is still rejected", mutate: func(p *coupon.Params) {
			p.Expiry = ptr.Of(pricing.DateOf(checkIn).AddDays(1))
		}, errIs: coupon.ErrCouponDateMismatch},
		{name: "expiry before check-in date", mutate: func(p *coupon.Params) {
			p.Expiry = ptr.Of(pricing.DateOf(checkIn).AddDays(-1))
		}, errIs: coupon.ErrCouponDateMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid()
			tc.mutate(&p)
			c, err := coupon.NewCoupon(p)
			require.NoError(t, err)

			rate, err := c.Resolve(w, hotelID)
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				assert.True(t, errs.Is(err, errs.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, coupon.Percent(10), rate)
		})
	}
}

func TestCoupon_Resolve_ExpiryUsesOperatingTimezone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2030, 5, 15, 8, 0, 0, 0, tokyo)
	w, err := stay.Normalize("2030-05-16T20:00:00Z", "", now)
	require.NoError(t, err)

	c, err := coupon.NewCoupon(coupon.Params{
		Code:     "TOKYO10",
		Discount: 10,
		Enabled:  true,
		Expiry:   ptr.Of(pricing.DateOf(time.Date(2030, 5, 17, 0, 0, 0, 0, tokyo))),
	})
	require.NoError(t, err)

	rate, err := c.Resolve(w, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, coupon.Percent(10), rate)
}

func TestApply(t *testing.T) {
	testCases := []struct {
		name  string
		total pricing.Money
		rate  coupon.Percent
		want  pricing.Money
	}{
		{name: "ten percent", total: 1500, rate: 10, want: 1350},
		{name: "rounds half up", total: 1005, rate: 10, want: 904},
		{name: "zero rate", total: 1500, rate: 0, want: 1500},
		{name: "full discount clamps at zero", total: 1500, rate: 100, want: 0},
		{name: "zero total", total: 0, rate: 50, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, coupon.Apply(tc.total, tc.rate))
		})
	}
}

func TestNewCoupon_Validation(t *testing.T) {
	_, err := coupon.NewCoupon(coupon.Params{Code: "x", Discount: 10})
	assert.ErrorIs(t, err, coupon.ErrInvalidCouponCode)

	_, err = coupon.NewCoupon(coupon.Params{Code: "SAVE", Discount: 101})
	assert.ErrorIs(t, err, coupon.ErrInvalidDiscountPercent)

	_, err = coupon.NewCoupon(coupon.Params{Code: "SAVE", Discount: 5, UsageLimit: -1})
	assert.ErrorIs(t, err, coupon.ErrInvalidUsageLimit)

	c, err := coupon.NewCoupon(coupon.Params{Code: " save5 ", Discount: 5})
	require.NoError(t, err)
	assert.Equal(t, coupon.Code("SAVE5"), c.Code())
	assert.NotEqual(t, uuid.Nil, c.ID())
}
