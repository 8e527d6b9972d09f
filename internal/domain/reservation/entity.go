package reservation

import (
	"time"

	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/pkg/token"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errs.Validation("invalid reservation status")
	ErrInvalidActor      = errs.Validation("invalid actor")
	ErrInvalidGuests     = errs.Validation("guests must be at least 1")
	ErrInvalidTransition = errs.Conflict("booking is not in the expected state")
	ErrHoldExpired       = errs.Conflict("Hold expired")
	ErrHoldStillActive   = errs.Conflict("hold is still active")
	ErrInvalidToken      = errs.Authorization("invalid action token")
	ErrReasonRequired    = errs.Policy("cancellation reason is required")
	ErrReasonTooShort    = errs.Policy("cancellation reason is too short")
	ErrLeadTimeTooShort  = errs.Policy("cancellation requires at least the minimum lead time before check-in")
)

type Reservation struct {
	id              uuid.UUID
	userID          *uuid.UUID
	hotelID         uuid.UUID
	roomID          uuid.UUID
	window          stay.Window
	guests          int
	total           pricing.Money
	couponID        *uuid.UUID
	couponCode      *string
	status          Status
	holdExpiresAt   *time.Time
	paid            bool
	cancelReason    *string
	cancellationFee pricing.Money
	ownerTokenHash  string
	guestTokenHash  string
	createdAt       time.Time
	updatedAt       time.Time
}

// Snapshot carries every persisted field. It is used to rebuild a reservation from storage.
type Snapshot struct {
	ID              uuid.UUID
	UserID          *uuid.UUID
	HotelID         uuid.UUID
	RoomID          uuid.UUID
	Window          stay.Window
	Guests          int
	Total           pricing.Money
	CouponID        *uuid.UUID
	CouponCode      *string
	Status          Status
	HoldExpiresAt   *time.Time
	Paid            bool
	CancelReason    *string
	CancellationFee pricing.Money
	OwnerTokenHash  string
	GuestTokenHash  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func Reconstruct(s Snapshot) *Reservation {
	return &Reservation{
		id:              s.ID,
		userID:          s.UserID,
		hotelID:         s.HotelID,
		roomID:          s.RoomID,
		window:          s.Window,
		guests:          s.Guests,
		total:           s.Total,
		couponID:        s.CouponID,
		couponCode:      s.CouponCode,
		status:          s.Status,
		holdExpiresAt:   s.HoldExpiresAt,
		paid:            s.Paid,
		cancelReason:    s.CancelReason,
		cancellationFee: s.CancellationFee,
		ownerTokenHash:  s.OwnerTokenHash,
		guestTokenHash:  s.GuestTokenHash,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}
}

func (r *Reservation) Snapshot() Snapshot {
	return Snapshot{
		ID:              r.id,
		UserID:          r.userID,
		HotelID:         r.hotelID,
		RoomID:          r.roomID,
		Window:          r.window,
		Guests:          r.guests,
		Total:           r.total,
		CouponID:        r.couponID,
		CouponCode:      r.couponCode,
		Status:          r.status,
		HoldExpiresAt:   r.holdExpiresAt,
		Paid:            r.paid,
		CancelReason:    r.cancelReason,
		CancellationFee: r.cancellationFee,
		OwnerTokenHash:  r.ownerTokenHash,
		GuestTokenHash:  r.guestTokenHash,
		CreatedAt:       r.createdAt,
		UpdatedAt:       r.updatedAt,
	}
}

// IsHoldActive reports whether a held reservation is still inside its hold deadline.
func (r *Reservation) IsHoldActive(now time.Time) bool {
	if r.status != StatusHeld {
		return false
	}
	return r.holdExpiresAt == nil || now.Before(*r.holdExpiresAt)
}

// BlocksRoom reports whether the reservation occupies its room at now. Expired holds
// are transparent even before they are marked expired.
func (r *Reservation) BlocksRoom(now time.Time) bool {
	if !r.status.IsBlocking() {
		return false
	}
	if r.status == StatusHeld {
		return r.IsHoldActive(now)
	}
	return true
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.status != StatusHeld {
		return ErrInvalidTransition
	}
	if !r.IsHoldActive(now) {
		return ErrHoldExpired
	}
	r.status = StatusConfirmed
	r.paid = true
	r.updatedAt = now
	return nil
}

// Expire moves a stale hold to expired.
func (r *Reservation) Expire(now time.Time) error {
	if r.status != StatusHeld {
		return ErrInvalidTransition
	}
	if r.IsHoldActive(now) {
		return ErrHoldStillActive
	}
	r.status = StatusExpired
	r.updatedAt = now
	return nil
}

// Cancel applies the actor-specific cancellation rules and returns the fee assessed,
// which is already added to the total.
func (r *Reservation) Cancel(actor Actor, rawReason string, policy CancellationPolicy, now time.Time) (pricing.Money, error) {
	if !r.status.IsCancellable() {
		return 0, ErrInvalidTransition
	}
	reason, err := NewCancelReason(rawReason, policy.MinReasonLength)
	if err != nil {
		return 0, err
	}

	untilCheckIn := r.window.CheckIn().Sub(now)

	var fee pricing.Money
	switch actor {
	case ActorOwner:
		if untilCheckIn < policy.OwnerLeadTime {
			return 0, ErrLeadTimeTooShort
		}
	case ActorGuest:
		if untilCheckIn <= policy.GuestFeeWindow {
			fee = policy.Fee()
		}
	default:
		return 0, ErrInvalidActor
	}

	text := reason.String()
	r.status = StatusCancelled
	r.cancelReason = &text
	r.cancellationFee = fee
	r.total += fee
	r.updatedAt = now
	return fee, nil
}

func (r *Reservation) CheckIn(now time.Time) error {
	if r.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	r.status = StatusCheckedIn
	r.updatedAt = now
	return nil
}

func (r *Reservation) CheckOut(now time.Time) error {
	if r.status != StatusCheckedIn {
		return ErrInvalidTransition
	}
	r.status = StatusCheckedOut
	r.updatedAt = now
	return nil
}

// VerifyToken checks a raw email-link token against the stored hash for actor.
func (r *Reservation) VerifyToken(actor Actor, raw string) error {
	hashed := r.guestTokenHash
	if actor == ActorOwner {
		hashed = r.ownerTokenHash
	}
	if err := token.Compare(hashed, raw); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// ConsumeToken makes actor's token unusable for any further action.
func (r *Reservation) ConsumeToken(actor Actor) {
	if actor == ActorOwner {
		r.ownerTokenHash = ""
		return
	}
	r.guestTokenHash = ""
}

func (r *Reservation) BelongsTo(userID uuid.UUID) bool {
	return r.userID != nil && *r.userID == userID
}

func (r *Reservation) ID() uuid.UUID                  { return r.id }
func (r *Reservation) UserID() *uuid.UUID             { return r.userID }
func (r *Reservation) HotelID() uuid.UUID             { return r.hotelID }
func (r *Reservation) RoomID() uuid.UUID              { return r.roomID }
func (r *Reservation) Window() stay.Window            { return r.window }
func (r *Reservation) Guests() int                    { return r.guests }
func (r *Reservation) Total() pricing.Money           { return r.total }
func (r *Reservation) CouponID() *uuid.UUID           { return r.couponID }
func (r *Reservation) CouponCode() *string            { return r.couponCode }
func (r *Reservation) Status() Status                 { return r.status }
func (r *Reservation) HoldExpiresAt() *time.Time      { return r.holdExpiresAt }
func (r *Reservation) Paid() bool                     { return r.paid }
func (r *Reservation) CancelReason() *string          { return r.cancelReason }
func (r *Reservation) CancellationFee() pricing.Money { return r.cancellationFee }
func (r *Reservation) CreatedAt() time.Time           { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time           { return r.updatedAt }
