package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView is the read model behind GET /api/bookings/:id.
type ReservationView struct {
	ID              uuid.UUID
	UserID          *uuid.UUID
	HotelID         uuid.UUID
	HotelName       string
	OwnerID         *uuid.UUID
	RoomID          uuid.UUID
	RoomType        string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Total           int64
	CouponCode      *string
	Status          string
	HoldExpiresAt   *time.Time
	Paid            bool
	CancelReason    *string
	CancellationFee int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ReservationListItem struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	RoomID    uuid.UUID
	RoomType  string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	Status    string
	Total     int64
	Paid      bool
	CreatedAt time.Time
}

// Viewer is whoever reads. Admins see everything.
type Viewer struct {
	UserID *uuid.UUID
	Admin  bool
}

func (v Viewer) is(id *uuid.UUID) bool {
	return v.UserID != nil && id != nil && *v.UserID == *id
}
