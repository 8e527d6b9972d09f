//go:build unit || e2e

package builder

import (
	"time"

	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/pkg/token"

	"github.com/google/uuid"
)

// Fixed raw tokens so tests can drive email-link actions.
const (
	OwnerToken = "0a1b2c3d0a1b2c3d0a1b2c3d0a1b2c3d0a1b2c3d0a1b2c3d0a1b2c3d0a1b2c3d"
	GuestToken = "9f8e7d6c9f8e7d6c9f8e7d6c9f8e7d6c9f8e7d6c9f8e7d6c9f8e7d6c9f8e7d6c"
)

type ReservationBuilder struct {
	ID              uuid.UUID
	UserID          *uuid.UUID
	HotelID         uuid.UUID
	RoomID          uuid.UUID
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Total           pricing.Money
	CouponID        *uuid.UUID
	CouponCode      *string
	Status          reservation.Status
	HoldExpiresAt   *time.Time
	Paid            bool
	CancellationFee pricing.Money
	CreatedAt       time.Time
}

func NewReservationBuilder(now time.Time) *ReservationBuilder {
	userID := uuid.New()
	hold := now.Add(15 * time.Minute)
	checkIn := now.Add(72 * time.Hour)
	return &ReservationBuilder{
		ID:            uuid.New(),
		UserID:        &userID,
		HotelID:       uuid.New(),
		RoomID:        uuid.New(),
		CheckIn:       checkIn,
		CheckOut:      checkIn.Add(24 * time.Hour),
		Guests:        2,
		Total:         1000,
		Status:        reservation.StatusHeld,
		HoldExpiresAt: &hold,
		CreatedAt:     now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithStatus(s reservation.Status) *ReservationBuilder {
	b.Status = s
	return b
}

func (b *ReservationBuilder) WithCheckIn(t time.Time) *ReservationBuilder {
	b.CheckIn = t
	b.CheckOut = t.Add(24 * time.Hour)
	return b
}

// Build methods
func (b *ReservationBuilder) BuildDomain() *reservation.Reservation {
	w, err := stay.New(b.CheckIn, b.CheckOut)
	if err != nil {
		panic(err)
	}
	return reservation.Reconstruct(reservation.Snapshot{
		ID:              b.ID,
		UserID:          b.UserID,
		HotelID:         b.HotelID,
		RoomID:          b.RoomID,
		Window:          w,
		Guests:          b.Guests,
		Total:           b.Total,
		CouponID:        b.CouponID,
		CouponCode:      b.CouponCode,
		Status:          b.Status,
		HoldExpiresAt:   b.HoldExpiresAt,
		Paid:            b.Paid,
		CancellationFee: b.CancellationFee,
		OwnerTokenHash:  mustHash(OwnerToken),
		GuestTokenHash:  mustHash(GuestToken),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.CreatedAt,
	})
}

func mustHash(raw string) string {
	h, err := token.Hash(raw)
	if err != nil {
		panic(err)
	}
	return h
}
