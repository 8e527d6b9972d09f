package repository

import (
	"context"
	"log/slog"
	"time"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/db"

	"github.com/google/uuid"
)

const senderSystem = "system"

// MessageRepository is the booking conversation thread.
type MessageRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewMessageRepository(dbtx db.DBTX, logger *slog.Logger) *MessageRepository {
	return &MessageRepository{
		db:     dbtx,
		logger: logger.With(slog.String("repository", "booking_message")),
	}
}

func (r *MessageRepository) AppendSystem(ctx context.Context, reservationID uuid.UUID, body string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO booking_messages (booking_id, sender, body, created_at) VALUES ($1, $2, $3, $4)`,
		reservationID, senderSystem, body, at)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to append booking message", err)
	}
	return nil
}
