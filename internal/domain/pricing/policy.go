package pricing

import (
	"time"

	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/pkg/errs"
)

var ErrInvalidSeasonalRange = errs.Validation("seasonal range end must not be before start")

// SeasonalRange covers Start..End inclusive.
type SeasonalRange struct {
	Start Date  `json:"start"`
	End   Date  `json:"end"`
	Rate  Money `json:"rate"`
}

func (r SeasonalRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

type SpecialDate struct {
	Date Date  `json:"date"`
	Rate Money `json:"rate"`
}

// Policy is a hotel's day-rate table. Seasonal ranges may overlap; the first declared
// match wins.
type Policy struct {
	NormalRate           Money
	WeekendRate          Money
	Seasonal             []SeasonalRange
	Special              []SpecialDate
	ExtraHourRate        Money
	CancellationHourRate Money
}

func (p Policy) Validate() error {
	rates := []Money{p.NormalRate, p.WeekendRate, p.ExtraHourRate, p.CancellationHourRate}
	for _, r := range p.Seasonal {
		if r.End.Before(r.Start) {
			return ErrInvalidSeasonalRange
		}
		rates = append(rates, r.Rate)
	}
	for _, s := range p.Special {
		rates = append(rates, s.Rate)
	}
	for _, m := range rates {
		if m < 0 {
			return ErrNegativeMoney
		}
	}
	return nil
}

type Tier string

const (
	TierSpecial  Tier = "special"
	TierSeasonal Tier = "seasonal"
	TierWeekend  Tier = "weekend"
	TierNormal   Tier = "normal"
)

// DayRate is one priced calendar day.
type DayRate struct {
	Date Date  `json:"date"`
	Tier Tier  `json:"tier"`
	Rate Money `json:"rate"`
}

// Breakdown is an auditable subtotal before coupon and tax.
type Breakdown struct {
	Days        []DayRate `json:"days"`
	ExtraHours  int       `json:"extra_hours"`
	ExtraAmount Money     `json:"extra_amount"`
	Total       Money     `json:"total"`
}

// RateForDate resolves special > seasonal > weekend > normal. A resolved tier with no
// positive rate falls back to the room's base per-day price.
func (p Policy) RateForDate(d Date, base Money) Money {
	return p.resolve(d, base).Rate
}

func (p Policy) resolve(d Date, base Money) DayRate {
	for _, s := range p.Special {
		if s.Date == d && s.Rate.IsPositive() {
			return DayRate{Date: d, Tier: TierSpecial, Rate: s.Rate}
		}
	}
	for _, r := range p.Seasonal {
		if r.Contains(d) {
			return DayRate{Date: d, Tier: TierSeasonal, Rate: r.Rate.Or(base)}
		}
	}
	if isWeekend(d.Weekday()) {
		return DayRate{Date: d, Tier: TierWeekend, Rate: p.WeekendRate.Or(base)}
	}
	return DayRate{Date: d, Tier: TierNormal, Rate: p.NormalRate.Or(base)}
}

// ComputeTotal sums day rates from the check-in date for each billable day and adds the
// overtime term priced from the following day's rate.
func (p Policy) ComputeTotal(w stay.Window, base Money) Money {
	return p.Breakdown(w, base).Total
}

func (p Policy) Breakdown(w stay.Window, base Money) Breakdown {
	dur := w.Billable()
	first := DateOf(w.CheckIn())

	out := Breakdown{Days: make([]DayRate, 0, dur.StayDays), ExtraHours: dur.ExtraHours}
	for i := 0; i < dur.StayDays; i++ {
		day := p.resolve(first.AddDays(i), base)
		out.Days = append(out.Days, day)
		out.Total += day.Rate
	}

	if dur.ExtraHours > 0 {
		next := p.RateForDate(first.AddDays(dur.StayDays), base)
		out.ExtraAmount = next.MulDivRound(int64(dur.ExtraHours), 24)
		out.Total += out.ExtraAmount
	}

	return out
}

func isWeekend(wd time.Weekday) bool {
	return wd == time.Friday || wd == time.Saturday || wd == time.Sunday
}
