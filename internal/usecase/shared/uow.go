package shared

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/domain/coupon"
	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/domain/stay"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes one repository per entity, all bound to the same transaction.
type Tx interface {
	Hotels() HotelRepository
	Rooms() RoomRepository
	Reservations() ReservationRepository
	Coupons() CouponRepository
}

type HotelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*hotel.Hotel, error)
}

type RoomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*room.Room, error)
	// ListByHotel returns rooms in a stable pool order.
	ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]*room.Room, error)
	Create(ctx context.Context, r *room.Room) error
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// FindByIDForUpdate locks the row for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// FindLatestHeld returns the guest's most recent held reservation at the hotel.
	FindLatestHeld(ctx context.Context, userID, hotelID uuid.UUID) (*reservation.Reservation, error)
	// ListBlocking returns reservations of the hotel in a blocking status whose stay
	// intersects w. Hold deadlines are left to the caller.
	ListBlocking(ctx context.Context, hotelID uuid.UUID, w stay.Window) ([]*reservation.Reservation, error)
	// UpdateFrom persists res only if the stored status still equals from.
	UpdateFrom(ctx context.Context, res *reservation.Reservation, from reservation.Status) error
}

type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error)
	// IncrementUsed is a single conditional update that never exceeds the usage limit.
	IncrementUsed(ctx context.Context, id uuid.UUID) error
	DecrementUsed(ctx context.Context, id uuid.UUID) error
}

// MessageThread appends system messages to a booking's conversation.
type MessageThread interface {
	AppendSystem(ctx context.Context, reservationID uuid.UUID, body string, at time.Time) error
}

type Settings struct {
	HoldMinutes int
	TaxRate     float64
}

type SettingsReader interface {
	Get(ctx context.Context) (Settings, error)
}
