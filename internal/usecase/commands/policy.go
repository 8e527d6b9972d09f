package commands

import (
	"time"

	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/room"
)

// BookingPolicy holds the tunable rules of the booking flow.
type BookingPolicy struct {
	DefaultHoldMinutes int
	MinCancelReason    int
	OwnerCancelLead    time.Duration
	GuestFeeWindow     time.Duration
	SynthRoomMembers   int
	DefaultRoomType    string
}

func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		DefaultHoldMinutes: 15,
		MinCancelReason:    10,
		OwnerCancelLead:    24 * time.Hour,
		GuestFeeWindow:     time.Hour,
		SynthRoomMembers:   2,
		DefaultRoomType:    "standard",
	}
}

func (p BookingPolicy) holdFor(minutes int) time.Duration {
	if minutes <= 0 {
		minutes = p.DefaultHoldMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (p BookingPolicy) cancellation(h *hotel.Hotel, r *room.Room) reservation.CancellationPolicy {
	base := h.BasePrice()
	if r != nil {
		base = r.PriceOr(base)
	}
	return reservation.CancellationPolicy{
		MinReasonLength: p.MinCancelReason,
		OwnerLeadTime:   p.OwnerCancelLead,
		GuestFeeWindow:  p.GuestFeeWindow,
		HourlyRate:      h.PricingPolicy().CancellationHourRate,
		BasePrice:       base,
	}
}
