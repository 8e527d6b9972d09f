package response

import (
	"time"

	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type QuoteDay struct {
	Date string `json:"date"`
	Tier string `json:"tier"`
	Rate int64  `json:"rate"`
}

type QuoteResponse struct {
	HotelID     uuid.UUID  `json:"hotel_id"`
	CheckIn     time.Time  `json:"check_in"`
	CheckOut    time.Time  `json:"check_out"`
	StayDays    int        `json:"stay_days"`
	ExtraHours  int        `json:"extra_hours"`
	Days        []QuoteDay `json:"days"`
	ExtraAmount int64      `json:"extra_amount"`
	Subtotal    int64      `json:"subtotal"`
	CouponCode  *string    `json:"coupon_code,omitempty"`
	DiscountPct int        `json:"discount_pct"`
	Discount    int64      `json:"discount"`
	Total       int64      `json:"total"`
	TaxRate     float64    `json:"tax_rate"`
	Tax         int64      `json:"tax"`
}

func FromQuote(q *queries.Quote) *QuoteResponse {
	d := q.Window.Billable()
	days := make([]QuoteDay, len(q.Breakdown.Days))
	for i, day := range q.Breakdown.Days {
		days[i] = QuoteDay{Date: day.Date.String(), Tier: string(day.Tier), Rate: day.Rate.Int64()}
	}
	return &QuoteResponse{
		HotelID:     q.HotelID,
		CheckIn:     q.Window.CheckIn(),
		CheckOut:    q.Window.CheckOut(),
		StayDays:    d.StayDays,
		ExtraHours:  d.ExtraHours,
		Days:        days,
		ExtraAmount: q.Breakdown.ExtraAmount.Int64(),
		Subtotal:    q.Breakdown.Total.Int64(),
		CouponCode:  q.CouponCode,
		DiscountPct: q.DiscountPct,
		Discount:    q.Discount.Int64(),
		Total:       q.Total.Int64(),
		TaxRate:     q.TaxRate,
		Tax:         q.Tax.Int64(),
	}
}
