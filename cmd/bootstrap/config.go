package bootstrap

import (
	"hotel-reservation-engine/internal/pkg/clock"
	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)

// ClockModule pins calendar arithmetic to the operating timezone.
var ClockModule = fx.Module("clock",
	fx.Provide(
		NewClock,
		NewBookingPolicy,
	),
)

func NewClock(cfg config.Config) (clock.Clock, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, err
	}
	return clock.NewRealClock(loc), nil
}

func NewBookingPolicy(cfg config.Config) commands.BookingPolicy {
	p := commands.DefaultBookingPolicy()
	b := cfg.Booking
	if b.HoldMinutes > 0 {
		p.DefaultHoldMinutes = b.HoldMinutes
	}
	if b.MinCancelReason > 0 {
		p.MinCancelReason = b.MinCancelReason
	}
	if b.OwnerCancelLead > 0 {
		p.OwnerCancelLead = b.OwnerCancelLead
	}
	if b.GuestFeeWindow > 0 {
		p.GuestFeeWindow = b.GuestFeeWindow
	}
	if b.SynthRoomMembers > 0 {
		p.SynthRoomMembers = b.SynthRoomMembers
	}
	if b.DefaultRoomType != "" {
		p.DefaultRoomType = b.DefaultRoomType
	}
	return p
}
