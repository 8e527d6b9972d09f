package reservation

import (
	"strings"
	"time"
	"unicode/utf8"

	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/pkg/token"
)

// CancellationPolicy carries the cancellation rules in force for one request.
type CancellationPolicy struct {
	MinReasonLength int
	OwnerLeadTime   time.Duration
	GuestFeeWindow  time.Duration
	HourlyRate      pricing.Money
	BasePrice       pricing.Money
}

// Fee is the hourly cancellation rate, or one hour of the base day price when unset.
func (p CancellationPolicy) Fee() pricing.Money {
	return p.HourlyRate.Or(p.BasePrice.MulDivRound(1, 24))
}

type CancelReason string

func NewCancelReason(raw string, minLength int) (CancelReason, error) {
	reason := strings.TrimSpace(raw)
	if reason == "" {
		return "", ErrReasonRequired
	}
	if utf8.RuneCountInString(reason) < minLength {
		return "", ErrReasonTooShort
	}
	return CancelReason(reason), nil
}

func (r CancelReason) String() string { return string(r) }

// IssuedTokens are the raw action tokens. They are only available right after creation;
// the reservation keeps bcrypt hashes.
type IssuedTokens struct {
	Owner string
	Guest string
}

type tokenHashes struct {
	owner string
	guest string
}

func issueTokens() (IssuedTokens, tokenHashes, error) {
	owner, err := token.Generate()
	if err != nil {
		return IssuedTokens{}, tokenHashes{}, err
	}
	guest, err := token.Generate()
	if err != nil {
		return IssuedTokens{}, tokenHashes{}, err
	}
	ownerHash, err := token.Hash(owner)
	if err != nil {
		return IssuedTokens{}, tokenHashes{}, err
	}
	guestHash, err := token.Hash(guest)
	if err != nil {
		return IssuedTokens{}, tokenHashes{}, err
	}
	return IssuedTokens{Owner: owner, Guest: guest}, tokenHashes{owner: ownerHash, guest: guestHash}, nil
}
