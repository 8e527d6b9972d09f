//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/stay"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) pricing.Date {
	t.Helper()
	d, err := pricing.ParseDate(s)
	require.NoError(t, err)
	return d
}

func window(t *testing.T, in, out time.Time) stay.Window {
	t.Helper()
	w, err := stay.New(in, out)
	require.NoError(t, err)
	return w
}

func TestRateForDate(t *testing.T) {
	// 2030-08-02 is a Friday, 2030-08-05 a Monday.
	policy := pricing.Policy{
		NormalRate:  1000,
		WeekendRate: 1500,
		Seasonal: []pricing.SeasonalRange{
			{Start: date(t, "2030-08-01"), End: date(t, "2030-08-10"), Rate: 2000},
			{Start: date(t, "2030-08-05"), End: date(t, "2030-08-20"), Rate: 2500},
			{Start: date(t, "2030-09-01"), End: date(t, "2030-09-01"), Rate: 0},
		},
		Special: []pricing.SpecialDate{
			{Date: date(t, "2030-08-02"), Rate: 5000},
			{Date: date(t, "2030-10-07"), Rate: 0},
		},
	}
	const base = pricing.Money(800)

	testCases := []struct {
		name string
		day  string
		want pricing.Money
	}{
		{name: "special wins over seasonal and weekend", day: "2030-08-02", want: 5000},
		{name: "seasonal range start is inclusive", day: "2030-08-01", want: 2000},
		{name: "first declared seasonal range wins", day: "2030-08-06", want: 2000},
		{name: "seasonal range end is inclusive", day: "2030-08-10", want: 2000},
		{name: "second range after first ends", day: "2030-08-11", want: 2500},
		{name: "seasonal with zero rate falls back to base", day: "2030-09-01", want: base},
		{name: "zero special rate is ignored", day: "2030-10-07", want: 1000},
		{name: "friday is weekend", day: "2030-10-04", want: 1500},
		{name: "saturday is weekend", day: "2030-10-05", want: 1500},
		{name: "sunday is weekend", day: "2030-10-06", want: 1500},
		{name: "thursday is normal", day: "2030-10-03", want: 1000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, policy.RateForDate(date(t, tc.day), base))
		})
	}
}

func TestRateForDate_FallsBackToBase(t *testing.T) {
	policy := pricing.Policy{}
	assert.Equal(t, pricing.Money(2400), policy.RateForDate(date(t, "2030-10-03"), 2400))
	assert.Equal(t, pricing.Money(2400), policy.RateForDate(date(t, "2030-10-04"), 2400))
}

func TestComputeTotal(t *testing.T) {
	policy := pricing.Policy{NormalRate: 1000, WeekendRate: 1500}

	testCases := []struct {
		name string
		in   time.Time
		out  time.Time
		base pricing.Money
		pol  pricing.Policy
		want pricing.Money
	}{
		{
			name: "friday to saturday is one weekend day",
			in:   time.Date(2030, 8, 2, 10, 0, 0, 0, time.UTC),
			out:  time.Date(2030, 8, 3, 10, 0, 0, 0, time.UTC),
			pol:  policy,
			base: 900,
			want: 1500,
		},
		{
			name: "thirty hours on base price",
			in:   time.Date(2030, 8, 5, 10, 0, 0, 0, time.UTC),
			out:  time.Date(2030, 8, 6, 16, 0, 0, 0, time.UTC),
			pol:  pricing.Policy{},
			base: 2400,
			want: 2400 + 600,
		},
		{
			name: "thursday to sunday mixes tiers",
			in:   time.Date(2030, 8, 1, 14, 0, 0, 0, time.UTC),
			out:  time.Date(2030, 8, 4, 14, 0, 0, 0, time.UTC),
			pol:  policy,
			base: 900,
			want: 1000 + 1500 + 1500,
		},
		{
			name: "extra hours priced from the following day",
			in:   time.Date(2030, 8, 1, 12, 0, 0, 0, time.UTC),
			out:  time.Date(2030, 8, 2, 15, 0, 0, 0, time.UTC),
			pol:  policy,
			base: 900,
			// thursday 1000 plus 3h of friday 1500/24*3 = 187.5 -> 188
			want: 1000 + 188,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.pol.ComputeTotal(window(t, tc.in, tc.out), tc.base)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputeTotal_PricesOperatingTimezoneDates(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2030, 5, 15, 8, 0, 0, 0, tokyo)
	policy := pricing.Policy{NormalRate: 1000, WeekendRate: 1500}

	// thursday 20:00 UTC is friday 05:00 in tokyo
	w, err := stay.Normalize("2030-05-16T20:00:00Z", "2030-05-17T20:00:00Z", now)
	require.NoError(t, err)

	assert.Equal(t, pricing.Money(1500), policy.ComputeTotal(w, 900))
}

func TestBreakdown(t *testing.T) {
	policy := pricing.Policy{NormalRate: 1000, WeekendRate: 1500}
	w := window(t,
		time.Date(2030, 8, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2030, 8, 3, 18, 0, 0, 0, time.UTC),
	)

	got := policy.Breakdown(w, 900)

	want := pricing.Breakdown{
		Days: []pricing.DayRate{
			{Date: date(t, "2030-08-01"), Tier: pricing.TierNormal, Rate: 1000},
			{Date: date(t, "2030-08-02"), Tier: pricing.TierWeekend, Rate: 1500},
		},
		ExtraHours:  6,
		ExtraAmount: 375,
		Total:       2875,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Breakdown mismatch (-want +got):\n%s", diff)
	}
}

func TestMoney_MulDivRound(t *testing.T) {
	assert.Equal(t, pricing.Money(600), pricing.Money(2400).MulDivRound(6, 24))
	assert.Equal(t, pricing.Money(1), pricing.Money(12).MulDivRound(1, 24))
	assert.Equal(t, pricing.Money(0), pricing.Money(11).MulDivRound(1, 24))
	assert.Equal(t, pricing.Money(0), pricing.Money(100).MulDivRound(1, 0))
}

func TestPolicy_Validate(t *testing.T) {
	bad := pricing.Policy{Seasonal: []pricing.SeasonalRange{
		{Start: date(t, "2030-08-10"), End: date(t, "2030-08-01"), Rate: 100},
	}}
	assert.ErrorIs(t, bad.Validate(), pricing.ErrInvalidSeasonalRange)
	assert.NoError(t, pricing.Policy{}.Validate())

	negative := []pricing.Policy{
		{WeekendRate: -1},
		{Seasonal: []pricing.SeasonalRange{{Start: date(t, "2030-08-01"), End: date(t, "2030-08-10"), Rate: -100}}},
		{Special: []pricing.SpecialDate{{Date: date(t, "2030-12-24"), Rate: -5}}},
	}
	for _, p := range negative {
		assert.ErrorIs(t, p.Validate(), pricing.ErrNegativeMoney)
	}
}
