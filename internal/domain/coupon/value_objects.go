package coupon

import (
	"regexp"
	"strings"

	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/pkg/errs"
)

var (
	ErrInvalidCouponCode      = errs.Validation("invalid coupon code format")
	ErrInvalidDiscountPercent = errs.Validation("percentage discount must be between 0 and 100")
	ErrInvalidUsageLimit      = errs.Validation("usage limit cannot be negative")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

type Code string

func NewCouponCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

// Percent is a whole-number discount rate in [0, 100].
type Percent int

func NewPercent(p int) (Percent, error) {
	if p < 0 || p > 100 {
		return 0, ErrInvalidDiscountPercent
	}
	return Percent(p), nil
}

func (p Percent) Int() int { return int(p) }

// Apply returns max(0, total - round(total*rate/100)).
func Apply(total pricing.Money, rate Percent) pricing.Money {
	discount := total.MulDivRound(int64(rate), 100)
	if discount >= total {
		return 0
	}
	return total - discount
}
