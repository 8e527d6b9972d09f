package commands

import (
	"context"
	"log/slog"
	"time"

	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// transition is the shared read-authorize-mutate-write path for every state change
// after creation. mutate runs against the locked row.
type transition struct {
	actor   reservation.Actor
	event   shared.EventType
	message string
	mutate  func(ctx context.Context, tx shared.Tx, h *hotel.Hotel, res *reservation.Reservation, now time.Time) error
	// after runs inside the transaction once res has been persisted.
	after func(ctx context.Context, tx shared.Tx, res *reservation.Reservation, from reservation.Status) error
}

func (uc *reservationCommandsImpl) Confirm(ctx context.Context, id uuid.UUID, actor reservation.Actor, caller Caller) (*TransitionResult, error) {
	return uc.run(ctx, id, caller, transition{
		actor:   actor,
		event:   shared.EventBookingConfirmed,
		message: "Booking confirmed and marked as paid.",
		mutate: func(_ context.Context, _ shared.Tx, _ *hotel.Hotel, res *reservation.Reservation, now time.Time) error {
			return res.Confirm(now)
		},
		after: func(ctx context.Context, tx shared.Tx, res *reservation.Reservation, _ reservation.Status) error {
			if res.CouponID() != nil {
				if err := tx.Coupons().IncrementUsed(ctx, *res.CouponID()); err != nil {
					if infra.IsKind(err, infra.KindConditionFailed) {
						return ErrCouponQuotaReached
					}
					return translate(err, ErrCouponNotFound)
				}
			}
			// Rooms are never hard-blocked for a date range; this only clears a stale flag.
			return translate(tx.Rooms().SetBlocked(ctx, res.RoomID(), false), ErrRoomNotFound)
		},
	})
}

func (uc *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, actor reservation.Actor, reason string, caller Caller) (*TransitionResult, error) {
	var fee bool
	result, err := uc.run(ctx, id, caller, transition{
		actor: actor,
		event: shared.EventBookingCancelled,
		mutate: func(ctx context.Context, tx shared.Tx, h *hotel.Hotel, res *reservation.Reservation, now time.Time) error {
			r, err := tx.Rooms().FindByID(ctx, res.RoomID())
			if err != nil {
				return translate(err, ErrRoomNotFound)
			}
			assessed, err := res.Cancel(actor, reason, uc.policy.cancellation(h, r), now)
			fee = assessed > 0
			return err
		},
		after: func(ctx context.Context, tx shared.Tx, res *reservation.Reservation, from reservation.Status) error {
			// Coupon usage is only counted on confirmation, so only confirmed stays give it back.
			if res.CouponID() != nil && from != reservation.StatusHeld {
				if err := tx.Coupons().DecrementUsed(ctx, *res.CouponID()); err != nil {
					return translate(err, ErrCouponNotFound)
				}
			}
			return translate(tx.Rooms().SetBlocked(ctx, res.RoomID(), false), ErrRoomNotFound)
		},
	})
	if err != nil {
		return nil, err
	}
	if fee {
		uc.logger.Info("cancellation fee assessed",
			slog.String("reservation_id", id.String()),
			slog.Int64("fee", result.CancellationFee.Int64()))
	}
	return result, nil
}

func (uc *reservationCommandsImpl) CheckIn(ctx context.Context, id uuid.UUID, caller Caller) (*TransitionResult, error) {
	return uc.run(ctx, id, caller, transition{
		actor:   reservation.ActorOwner,
		message: "Guest checked in.",
		mutate: func(_ context.Context, _ shared.Tx, _ *hotel.Hotel, res *reservation.Reservation, now time.Time) error {
			return res.CheckIn(now)
		},
	})
}

func (uc *reservationCommandsImpl) CheckOut(ctx context.Context, id uuid.UUID, caller Caller) (*TransitionResult, error) {
	return uc.run(ctx, id, caller, transition{
		actor:   reservation.ActorOwner,
		message: "Guest checked out.",
		mutate: func(_ context.Context, _ shared.Tx, _ *hotel.Hotel, res *reservation.Reservation, now time.Time) error {
			return res.CheckOut(now)
		},
	})
}

func (uc *reservationCommandsImpl) run(ctx context.Context, id uuid.UUID, caller Caller, t transition) (*TransitionResult, error) {
	var (
		out   *TransitionResult
		event *shared.NotificationEvent
		at    time.Time
	)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		event = nil
		now := uc.clock.Now()
		at = now

		res, err := tx.Reservations().FindByIDForUpdate(ctx, id)
		if err != nil {
			return translate(err, ErrReservationNotFound)
		}
		h, err := tx.Hotels().FindByID(ctx, res.HotelID())
		if err != nil {
			return translate(err, ErrHotelNotFound)
		}
		if err = authorize(res, h, t.actor, caller); err != nil {
			return err
		}

		from := res.Status()
		if err = t.mutate(ctx, tx, h, res, now); err != nil {
			return err
		}
		if caller.Token != "" {
			res.ConsumeToken(t.actor)
		}
		if err = tx.Reservations().UpdateFrom(ctx, res, from); err != nil {
			return translate(err, ErrReservationNotFound)
		}
		if t.after != nil {
			if err = t.after(ctx, tx, res, from); err != nil {
				return err
			}
		}

		if t.event != "" {
			ev := eventFor(t.event, res, h, now)
			if reason := res.CancelReason(); reason != nil {
				ev.Reason = *reason
			}
			event = &ev
		}
		out = &TransitionResult{
			ReservationID:   res.ID(),
			Status:          res.Status(),
			CancellationFee: res.CancellationFee(),
			Total:           res.Total(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	message := t.message
	if message == "" && out.Status == reservation.StatusCancelled {
		message = "Booking cancelled by " + t.actor.String() + "."
	}
	uc.appendMessage(ctx, id, message, at)
	if event != nil {
		uc.publish(ctx, *event)
	}
	return out, nil
}

// authorize accepts a matching email-link token, an admin, the hotel owner for owner
// actions, or the booking's own guest for guest actions.
func authorize(res *reservation.Reservation, h *hotel.Hotel, actor reservation.Actor, caller Caller) error {
	if caller.Token != "" {
		return res.VerifyToken(actor, caller.Token)
	}
	if caller.Admin {
		return nil
	}
	if caller.UserID == nil {
		return reservation.ErrInvalidToken
	}
	switch actor {
	case reservation.ActorOwner:
		if !h.IsOwnedBy(*caller.UserID) {
			return ErrNotHotelOwner
		}
	case reservation.ActorGuest:
		if !res.BelongsTo(*caller.UserID) {
			return ErrNotReservationGuest
		}
	default:
		return reservation.ErrInvalidActor
	}
	return nil
}
