package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingHeld      EventType = "booking.held"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingExpired   EventType = "booking.expired"
)

// NotificationEvent is published after a transition commits. Tokens are only set on
// booking.held, the one moment raw tokens exist.
type NotificationEvent struct {
	Type          EventType  `json:"type"`
	ReservationID uuid.UUID  `json:"reservation_id"`
	HotelID       uuid.UUID  `json:"hotel_id"`
	OwnerID       *uuid.UUID `json:"owner_id,omitempty"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	CheckIn       time.Time  `json:"check_in"`
	CheckOut      time.Time  `json:"check_out"`
	Total         int64      `json:"total"`
	OwnerToken    string     `json:"owner_token,omitempty"`
	GuestToken    string     `json:"guest_token,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

type Notifier interface {
	Publish(ctx context.Context, event NotificationEvent) error
}
