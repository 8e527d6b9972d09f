package pricing

import (
	"strconv"

	"hotel-reservation-engine/internal/pkg/errs"
)

var ErrNegativeMoney = errs.Validation("money cannot be negative")

// Money is an amount in whole currency units.
type Money int64

func (m Money) Int64() int64    { return int64(m) }
func (m Money) IsPositive() bool { return m > 0 }
func (m Money) String() string   { return strconv.FormatInt(int64(m), 10) }

// Or returns m when positive, otherwise fallback.
func (m Money) Or(fallback Money) Money {
	if m > 0 {
		return m
	}
	return fallback
}

// MulDivRound returns round-half-up(m * num / den) for non-negative operands.
func (m Money) MulDivRound(num, den int64) Money {
	if den <= 0 {
		return 0
	}
	return Money((int64(m)*num + den/2) / den)
}
