package commands

import (
	"context"
	"log/slog"
	"time"

	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Side effects run after commit. Their failures are logged and never undo the transition.

func (uc *reservationCommandsImpl) publish(ctx context.Context, ev shared.NotificationEvent) {
	if err := uc.notifier.Publish(ctx, ev); err != nil {
		uc.logger.Warn("notification publish failed",
			slog.String("event", string(ev.Type)),
			slog.String("reservation_id", ev.ReservationID.String()),
			slog.String("error", err.Error()))
	}
}

func (uc *reservationCommandsImpl) appendMessage(ctx context.Context, id uuid.UUID, body string, at time.Time) {
	if body == "" {
		return
	}
	if err := uc.thread.AppendSystem(ctx, id, body, at); err != nil {
		uc.logger.Warn("system message append failed",
			slog.String("reservation_id", id.String()),
			slog.String("error", err.Error()))
	}
}

func eventFor(t shared.EventType, res *reservation.Reservation, h *hotel.Hotel, now time.Time) shared.NotificationEvent {
	return shared.NotificationEvent{
		Type:          t,
		ReservationID: res.ID(),
		HotelID:       h.ID(),
		OwnerID:       h.OwnerID(),
		UserID:        res.UserID(),
		CheckIn:       res.Window().CheckIn(),
		CheckOut:      res.Window().CheckOut(),
		Total:         res.Total().Int64(),
		OccurredAt:    now,
	}
}
