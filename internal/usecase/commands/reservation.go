package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/internal/domain/coupon"
	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/pkg/clock"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrInvalidCouponReference = errs.Validation("coupon id and coupon code are mutually exclusive")

type CreateReservationInput struct {
	HotelID    uuid.UUID
	CheckIn    string
	CheckOut   string
	Guests     int
	UserID     *uuid.UUID
	RoomType   string
	CouponID   *uuid.UUID
	CouponCode *string
}

type CreateReservationResult struct {
	Status        reservation.Status
	ReservationID uuid.UUID
	RoomID        uuid.UUID
	HoldExpiresAt time.Time
	Total         pricing.Money
	// Reused is true when a still-valid hold for the same guest and hotel was returned.
	Reused bool
}

// Caller identifies who drives a transition: an authenticated user, an admin, or the
// bearer of an email-link token.
type Caller struct {
	UserID *uuid.UUID
	Admin  bool
	Token  string
}

type TransitionResult struct {
	ReservationID   uuid.UUID
	Status          reservation.Status
	CancellationFee pricing.Money
	Total           pricing.Money
}

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/commands/reservation.go -package=commandsmock
type ReservationCommands interface {
	Create(ctx context.Context, in CreateReservationInput) (*CreateReservationResult, error)
	Confirm(ctx context.Context, id uuid.UUID, actor reservation.Actor, caller Caller) (*TransitionResult, error)
	Cancel(ctx context.Context, id uuid.UUID, actor reservation.Actor, reason string, caller Caller) (*TransitionResult, error)
	CheckIn(ctx context.Context, id uuid.UUID, caller Caller) (*TransitionResult, error)
	CheckOut(ctx context.Context, id uuid.UUID, caller Caller) (*TransitionResult, error)
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	settings shared.SettingsReader
	notifier shared.Notifier
	thread   shared.MessageThread
	factory  *reservation.Factory
	clock    clock.Clock
	policy   BookingPolicy
	logger   *slog.Logger
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	settings shared.SettingsReader,
	notifier shared.Notifier,
	thread shared.MessageThread,
	clk clock.Clock,
	policy BookingPolicy,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:      uow,
		settings: settings,
		notifier: notifier,
		thread:   thread,
		factory:  reservation.NewFactory(clk),
		clock:    clk,
		policy:   policy,
		logger:   logger.With(slog.String("usecase", "reservation")),
	}
}

func (uc *reservationCommandsImpl) Create(ctx context.Context, in CreateReservationInput) (*CreateReservationResult, error) {
	if in.CouponID != nil && in.CouponCode != nil {
		return nil, ErrInvalidCouponReference
	}
	if in.Guests < 1 {
		return nil, reservation.ErrInvalidGuests
	}

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Warn("settings unavailable, using default hold window", "error", err.Error())
		settings = shared.Settings{HoldMinutes: uc.policy.DefaultHoldMinutes}
	}
	holdFor := uc.policy.holdFor(settings.HoldMinutes)

	var (
		result  *CreateReservationResult
		pending []shared.NotificationEvent
	)

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Retries of the transaction must not leak events from a rolled back attempt.
		pending = pending[:0]
		now := uc.clock.Now()

		h, derr := tx.Hotels().FindByID(ctx, in.HotelID)
		if derr != nil {
			return translate(derr, ErrHotelNotFound)
		}
		if derr = h.EnsureBookable(); derr != nil {
			return derr
		}

		window, derr := stay.Normalize(in.CheckIn, in.CheckOut, now)
		if derr != nil {
			return derr
		}

		if in.UserID != nil {
			reused, expired, derr := uc.reuseOrExpireHold(ctx, tx, *in.UserID, h, now)
			if derr != nil {
				return derr
			}
			if reused != nil {
				result = reused
				return nil
			}
			if expired != nil {
				pending = append(pending, eventFor(shared.EventBookingExpired, expired, h, now))
			}
		}

		assigned, derr := uc.assignRoom(ctx, tx, h, window, in.RoomType, now)
		if derr != nil {
			return derr
		}

		total := h.PricingPolicy().ComputeTotal(window, assigned.PriceOr(h.BasePrice()))

		c, derr := shared.LoadCoupon(ctx, tx, in.CouponID, in.CouponCode)
		if derr != nil {
			return derr
		}
		var couponID *uuid.UUID
		var couponCode *string
		if c != nil {
			rate, rerr := c.Resolve(window, h.ID())
			if rerr != nil {
				return rerr
			}
			total = coupon.Apply(total, rate)
			id, code := c.ID(), c.Code().String()
			couponID, couponCode = &id, &code
		}

		res, issued, derr := uc.factory.NewHeld(reservation.HoldParams{
			UserID:     in.UserID,
			HotelID:    h.ID(),
			RoomID:     assigned.ID(),
			Window:     window,
			Guests:     in.Guests,
			Total:      total,
			CouponID:   couponID,
			CouponCode: couponCode,
			HoldFor:    holdFor,
		})
		if derr != nil {
			return derr
		}
		if derr = tx.Reservations().Create(ctx, res); derr != nil {
			return derr
		}

		held := eventFor(shared.EventBookingHeld, res, h, now)
		held.OwnerToken = issued.Owner
		held.GuestToken = issued.Guest
		pending = append(pending, held)

		result = &CreateReservationResult{
			Status:        res.Status(),
			ReservationID: res.ID(),
			RoomID:        res.RoomID(),
			HoldExpiresAt: *res.HoldExpiresAt(),
			Total:         res.Total(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ev := range pending {
		uc.publish(ctx, ev)
	}
	return result, nil
}

// reuseOrExpireHold returns the guest's still-valid hold at the hotel, or lazily expires a
// stale one and releases its room.
func (uc *reservationCommandsImpl) reuseOrExpireHold(
	ctx context.Context,
	tx shared.Tx,
	userID uuid.UUID,
	h *hotel.Hotel,
	now time.Time,
) (*CreateReservationResult, *reservation.Reservation, error) {
	existing, err := tx.Reservations().FindLatestHeld(ctx, userID, h.ID())
	if err != nil {
		if errors.Is(translate(err, ErrReservationNotFound), ErrReservationNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	if existing.IsHoldActive(now) {
		uc.logger.Info("reusing active hold",
			slog.String("reservation_id", existing.ID().String()),
			slog.String("hotel_id", h.ID().String()))
		return &CreateReservationResult{
			Status:        existing.Status(),
			ReservationID: existing.ID(),
			RoomID:        existing.RoomID(),
			HoldExpiresAt: *existing.HoldExpiresAt(),
			Total:         existing.Total(),
			Reused:        true,
		}, nil, nil
	}

	if err = existing.Expire(now); err != nil {
		return nil, nil, err
	}
	if err = tx.Reservations().UpdateFrom(ctx, existing, reservation.StatusHeld); err != nil {
		return nil, nil, translate(err, ErrReservationNotFound)
	}
	if err = tx.Rooms().SetBlocked(ctx, existing.RoomID(), false); err != nil {
		return nil, nil, translate(err, ErrRoomNotFound)
	}
	uc.logger.Info("expired stale hold",
		slog.String("reservation_id", existing.ID().String()),
		slog.String("room_id", existing.RoomID().String()))
	return nil, existing, nil
}

// assignRoom runs the matcher and, when nothing is free, synthesizes a room of the
// requested type priced at the hotel's base price.
func (uc *reservationCommandsImpl) assignRoom(
	ctx context.Context,
	tx shared.Tx,
	h *hotel.Hotel,
	window stay.Window,
	roomType string,
	now time.Time,
) (*room.Room, error) {
	pool, err := tx.Rooms().ListByHotel(ctx, h.ID())
	if err != nil {
		return nil, err
	}
	active, err := tx.Reservations().ListBlocking(ctx, h.ID(), window)
	if err != nil {
		return nil, err
	}

	matched, err := availability.FindRoom(pool, active, availability.Request{
		Window:   window,
		RoomType: roomType,
		Now:      now,
	})
	if err == nil {
		return matched, nil
	}
	if !errors.Is(err, availability.ErrNoRoomAvailable) {
		return nil, err
	}

	if roomType == "" {
		roomType = uc.policy.DefaultRoomType
	}
	synthesized, err := room.Synthesize(h.ID(), roomType, h.BasePrice(), uc.policy.SynthRoomMembers)
	if err != nil {
		return nil, err
	}
	if err = tx.Rooms().Create(ctx, synthesized); err != nil {
		return nil, err
	}
	uc.logger.Info("synthesized room",
		slog.String("hotel_id", h.ID().String()),
		slog.String("room_id", synthesized.ID().String()),
		slog.String("room_type", synthesized.Type()))
	return synthesized, nil
}
