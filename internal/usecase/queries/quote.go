package queries

import (
	"context"
	"log/slog"
	"math"

	"hotel-reservation-engine/internal/domain/coupon"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/pkg/clock"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCouponNotFound         = shared.ErrCouponNotFound
	ErrInvalidCouponReference = errs.Validation("coupon id and coupon code are mutually exclusive")
)

type QuoteInput struct {
	HotelID    uuid.UUID
	CheckIn    string
	CheckOut   string
	RoomType   string
	CouponID   *uuid.UUID
	CouponCode *string
}

// Quote prices a stay the way a hold would, without placing one. Tax is informational.
type Quote struct {
	HotelID     uuid.UUID
	Window      stay.Window
	Breakdown   pricing.Breakdown
	CouponCode  *string
	DiscountPct int
	Discount    pricing.Money
	Total       pricing.Money
	TaxRate     float64
	Tax         pricing.Money
}

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/queries/quote.go -package=queriesmock
type QuoteQueries interface {
	Quote(ctx context.Context, in QuoteInput) (*Quote, error)
}

type quoteQueriesImpl struct {
	uow      shared.UnitOfWork
	settings shared.SettingsReader
	clock    clock.Clock
	logger   *slog.Logger
}

func NewQuoteQueries(uow shared.UnitOfWork, settings shared.SettingsReader, clk clock.Clock, logger *slog.Logger) QuoteQueries {
	return &quoteQueriesImpl{uow: uow, settings: settings, clock: clk, logger: logger.With(slog.String("usecase", "quote"))}
}

func (q *quoteQueriesImpl) Quote(ctx context.Context, in QuoteInput) (*Quote, error) {
	if in.CouponID != nil && in.CouponCode != nil {
		return nil, ErrInvalidCouponReference
	}

	var out *Quote
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		h, err := tx.Hotels().FindByID(ctx, in.HotelID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrHotelNotFound
			}
			return err
		}
		if err = h.EnsureBookable(); err != nil {
			return err
		}
		window, err := stay.Normalize(in.CheckIn, in.CheckOut, q.clock.Now())
		if err != nil {
			return err
		}

		rooms, err := tx.Rooms().ListByHotel(ctx, h.ID())
		if err != nil {
			return err
		}
		base := quoteBase(rooms, in.RoomType, h.BasePrice())

		bd := h.PricingPolicy().Breakdown(window, base)
		out = &Quote{HotelID: h.ID(), Window: window, Breakdown: bd, Total: bd.Total}

		c, err := shared.LoadCoupon(ctx, tx, in.CouponID, in.CouponCode)
		if err != nil || c == nil {
			return err
		}
		rate, err := c.Resolve(window, h.ID())
		if err != nil {
			return err
		}
		code := c.Code().String()
		out.CouponCode = &code
		out.DiscountPct = rate.Int()
		out.Total = coupon.Apply(bd.Total, rate)
		out.Discount = bd.Total - out.Total
		return nil
	})
	if err != nil {
		return nil, err
	}

	settings, err := q.settings.Get(ctx)
	if err != nil {
		q.logger.Warn("settings unavailable, quoting without tax", "error", err.Error())
		return out, nil
	}
	out.TaxRate = settings.TaxRate
	out.Tax = pricing.Money(math.Round(float64(out.Total) * settings.TaxRate))
	return out, nil
}

// quoteBase picks the per-day price a hold would most likely use: the first listed room
// of the requested type, or the hotel base price.
func quoteBase(rooms []*room.Room, roomType string, fallback pricing.Money) pricing.Money {
	for _, r := range rooms {
		if r.IsAvailable() && r.MatchesType(roomType) {
			return r.PriceOr(fallback)
		}
	}
	return fallback
}
