package coupon

import (
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrCouponDisabled     = errs.Validation("coupon is disabled")
	ErrQuotaExhausted     = errs.Validation("coupon usage limit reached")
	ErrWrongHotel         = errs.Validation("coupon is not valid for this hotel")
	ErrCouponDateMismatch = errs.Validation("coupon is not valid for the check-in date")
)

type Coupon struct {
	id         uuid.UUID
	code       Code
	discount   Percent
	expiry     *pricing.Date
	usageLimit int
	used       int
	enabled    bool
	hotelID    *uuid.UUID
	ownerID    *uuid.UUID
}

type Params struct {
	ID         uuid.UUID
	Code       string
	Discount   int
	Expiry     *pricing.Date
	UsageLimit int
	Used       int
	Enabled    bool
	HotelID    *uuid.UUID
	OwnerID    *uuid.UUID
}

func NewCoupon(p Params) (*Coupon, error) {
	code, err := NewCouponCode(p.Code)
	if err != nil {
		return nil, err
	}
	discount, err := NewPercent(p.Discount)
	if err != nil {
		return nil, err
	}
	if p.UsageLimit < 0 {
		return nil, ErrInvalidUsageLimit
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Coupon{
		id:         id,
		code:       code,
		discount:   discount,
		expiry:     p.Expiry,
		usageLimit: p.UsageLimit,
		used:       p.Used,
		enabled:    p.Enabled,
		hotelID:    p.HotelID,
		ownerID:    p.OwnerID,
	}, nil
}

// Resolve checks the coupon against a stay at a hotel. An expiry date is a single valid
// day and must equal the check-in date.
func (c *Coupon) Resolve(w stay.Window, hotelID uuid.UUID) (Percent, error) {
	if !c.enabled {
		return 0, ErrCouponDisabled
	}
	if c.IsExhausted() {
		return 0, ErrQuotaExhausted
	}
	if c.hotelID != nil && *c.hotelID != hotelID {
		return 0, ErrWrongHotel
	}
	if c.expiry != nil && *c.expiry != pricing.DateOf(w.CheckIn()) {
		return 0, ErrCouponDateMismatch
	}
	return c.discount, nil
}

func (c *Coupon) IsExhausted() bool {
	return c.usageLimit > 0 && c.used >= c.usageLimit
}

func (c *Coupon) ID() uuid.UUID         { return c.id }
func (c *Coupon) Code() Code            { return c.code }
func (c *Coupon) Discount() Percent     { return c.discount }
func (c *Coupon) Expiry() *pricing.Date { return c.expiry }
func (c *Coupon) UsageLimit() int       { return c.usageLimit }
func (c *Coupon) Used() int             { return c.used }
func (c *Coupon) Enabled() bool         { return c.enabled }
func (c *Coupon) HotelID() *uuid.UUID   { return c.hotelID }
func (c *Coupon) OwnerID() *uuid.UUID   { return c.ownerID }
