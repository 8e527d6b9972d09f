package reservation

import (
	"time"

	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock clock.Clock
}

func NewFactory(clock clock.Clock) *Factory {
	return &Factory{Clock: clock}
}

type HoldParams struct {
	UserID     *uuid.UUID
	HotelID    uuid.UUID
	RoomID     uuid.UUID
	Window     stay.Window
	Guests     int
	Total      pricing.Money
	CouponID   *uuid.UUID
	CouponCode *string
	HoldFor    time.Duration
}

// NewHeld places a time-limited hold and issues the owner and guest action tokens.
func (f *Factory) NewHeld(p HoldParams) (*Reservation, IssuedTokens, error) {
	if p.Guests < 1 {
		return nil, IssuedTokens{}, ErrInvalidGuests
	}

	issued, hashes, err := issueTokens()
	if err != nil {
		return nil, IssuedTokens{}, err
	}

	now := f.Clock.Now()
	deadline := now.Add(p.HoldFor)

	return &Reservation{
		id:             uuid.New(),
		userID:         p.UserID,
		hotelID:        p.HotelID,
		roomID:         p.RoomID,
		window:         p.Window,
		guests:         p.Guests,
		total:          p.Total,
		couponID:       p.CouponID,
		couponCode:     p.CouponCode,
		status:         StatusHeld,
		holdExpiresAt:  &deadline,
		ownerTokenHash: hashes.owner,
		guestTokenHash: hashes.guest,
		createdAt:      now,
		updatedAt:      now,
	}, issued, nil
}
