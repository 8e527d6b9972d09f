//go:build unit

package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"hotel-reservation-engine/internal/domain/coupon"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/pkg/clock"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/pkg/ptr"
	"hotel-reservation-engine/internal/usecase/queries"
	"hotel-reservation-engine/internal/usecase/shared"
	"hotel-reservation-engine/tests/common/builder"
	"hotel-reservation-engine/tests/common/memstore"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quoteNow = time.Date(2030, 5, 15, 9, 0, 0, 0, time.UTC)

type settingsStub struct {
	settings shared.Settings
	err      error
}

func (s settingsStub) Get(context.Context) (shared.Settings, error) { return s.settings, s.err }

func newQuoteQueries(t *testing.T, settings settingsStub, mutate ...func(*builder.HotelBuilder)) (queries.QuoteQueries, *memstore.Store, *builder.HotelBuilder) {
	t.Helper()
	h := builder.NewHotelBuilder()
	for _, m := range mutate {
		h.With(m)
	}
	store := memstore.New()
	store.AddHotel(h.BuildDomain())
	store.AddRoom(room.Reconstruct(uuid.New(), h.ID, "suite", 4800, 4, true, false))
	store.AddRoom(h.BuildRoom("double"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return queries.NewQuoteQueries(store, settings, clock.NewMockClock(quoteNow), logger), store, h
}

func TestQuote_Breakdown(t *testing.T) {
	q, _, h := newQuoteQueries(t, settingsStub{settings: shared.Settings{TaxRate: 0.1}})

	got, err := q.Quote(context.Background(), queries.QuoteInput{
		HotelID:  h.ID,
		CheckIn:  "2030-05-16T14:00",
		CheckOut: "2030-05-17T20:00",
	})
	require.NoError(t, err)

	want := pricing.Breakdown{
		Days: []pricing.DayRate{
			{Date: pricing.DateOf(time.Date(2030, 5, 16, 0, 0, 0, 0, time.UTC)), Tier: pricing.TierNormal, Rate: 1000},
		},
		ExtraHours:  6,
		ExtraAmount: 375,
		Total:       1375,
	}
	if diff := cmp.Diff(want, got.Breakdown); diff != "" {
		t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, pricing.Money(1375), got.Total)
	assert.Equal(t, 0.1, got.TaxRate)
	assert.Equal(t, pricing.Money(138), got.Tax)
	assert.Nil(t, got.CouponCode)
}

func TestQuote_RoomTypeBase(t *testing.T) {
	q, _, h := newQuoteQueries(t, settingsStub{}, func(b *builder.HotelBuilder) { b.Policy = pricing.Policy{} })

	suite, err := q.Quote(context.Background(), queries.QuoteInput{HotelID: h.ID, CheckIn: "2030-05-20", RoomType: "Suite"})
	require.NoError(t, err)
	assert.Equal(t, pricing.Money(4800), suite.Total, "empty rate table falls back to the room price")

	first, err := q.Quote(context.Background(), queries.QuoteInput{HotelID: h.ID, CheckIn: "2030-05-20"})
	require.NoError(t, err)
	assert.Equal(t, pricing.Money(4800), first.Total, "first listed room wins")

	missing, err := q.Quote(context.Background(), queries.QuoteInput{HotelID: h.ID, CheckIn: "2030-05-20", RoomType: "penthouse"})
	require.NoError(t, err)
	assert.Equal(t, h.BasePrice, missing.Total)
}

func TestQuote_Coupon(t *testing.T) {
	q, store, h := newQuoteQueries(t, settingsStub{settings: shared.Settings{TaxRate: 0.08}})
	c := builder.NewCouponBuilder().With(func(p *coupon.Params) { p.Discount = 20 })
	store.AddCoupon(c.Params)

	got, err := q.Quote(context.Background(), queries.QuoteInput{
		HotelID:    h.ID,
		CheckIn:    "2030-05-17T14:00",
		CouponCode: ptr.Of("welcome10"),
	})
	require.NoError(t, err)

	assert.Equal(t, pricing.Money(1500), got.Breakdown.Total)
	assert.Equal(t, ptr.Of("WELCOME10"), got.CouponCode)
	assert.Equal(t, 20, got.DiscountPct)
	assert.Equal(t, pricing.Money(300), got.Discount)
	assert.Equal(t, pricing.Money(1200), got.Total)
	assert.Equal(t, pricing.Money(96), got.Tax)
	assert.Zero(t, store.CouponUsed(c.Params.ID))
}

func TestQuote_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		in       func(h *builder.HotelBuilder) queries.QuoteInput
		category errs.Category
		errIs    error
	}{
		{
			name: "coupon id and code together",
			in: func(h *builder.HotelBuilder) queries.QuoteInput {
				return queries.QuoteInput{HotelID: h.ID, CheckIn: "2030-05-20", CouponID: ptr.Of(uuid.New()), CouponCode: ptr.Of("WELCOME10")}
			},
			errIs: queries.ErrInvalidCouponReference,
		},
		{
			name:  "unknown hotel",
			in:    func(*builder.HotelBuilder) queries.QuoteInput { return queries.QuoteInput{HotelID: uuid.New(), CheckIn: "2030-05-20"} },
			errIs: queries.ErrHotelNotFound,
		},
		{
			name: "unknown coupon",
			in: func(h *builder.HotelBuilder) queries.QuoteInput {
				return queries.QuoteInput{HotelID: h.ID, CheckIn: "2030-05-20", CouponID: ptr.Of(uuid.New())}
			},
			errIs: queries.ErrCouponNotFound,
		},
		{
			name:     "past check-in",
			in:       func(h *builder.HotelBuilder) queries.QuoteInput { return queries.QuoteInput{HotelID: h.ID, CheckIn: "2030-05-01"} },
			category: errs.CategoryValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, _, h := newQuoteQueries(t, settingsStub{})
			_, err := q.Quote(context.Background(), tc.in(h))
			require.Error(t, err)
			if tc.errIs != nil {
				assert.True(t, errs.Is(err, tc.errIs), "got %v", err)
			}
			if tc.category != "" {
				assert.Equal(t, tc.category, errs.Classify(err))
			}
		})
	}
}

func TestQuote_SettingsUnavailable(t *testing.T) {
	q, _, h := newQuoteQueries(t, settingsStub{err: errs.New("redis down")})

	got, err := q.Quote(context.Background(), queries.QuoteInput{HotelID: h.ID, CheckIn: "2030-05-20"})
	require.NoError(t, err)
	assert.Equal(t, pricing.Money(1000), got.Total)
	assert.Zero(t, got.TaxRate)
	assert.Zero(t, got.Tax)
}
