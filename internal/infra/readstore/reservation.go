package readstore

import (
	"context"
	"log/slog"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/db"
	"hotel-reservation-engine/internal/pkg/pgconv"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationViewQuery = `
SELECT b.id, b.user_id, b.hotel_id, h.name, h.owner_id, b.room_id, r.room_type,
       b.check_in, b.check_out, b.guests, b.total, b.coupon_code, b.status,
       b.hold_expires_at, b.paid, b.cancel_reason, b.cancellation_fee,
       b.created_at, b.updated_at
FROM bookings b
JOIN hotels h ON h.id = b.hotel_id
JOIN rooms r ON r.id = b.room_id
WHERE b.id = $1`

const listColumns = `b.id, b.user_id, b.room_id, r.room_type, b.check_in, b.check_out,
       b.guests, b.status, b.total, b.paid, b.created_at`

type ReservationReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewReservationReadStore(dbtx db.DBTX, logger *slog.Logger) *ReservationReadStore {
	return &ReservationReadStore{
		db:     dbtx,
		logger: logger.With(slog.String("readstore", "reservation")),
	}
}

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	var (
		v                        queries.ReservationView
		userID, ownerID          pgtype.UUID
		couponCode, cancelReason pgtype.Text
		holdExpiresAt            pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, reservationViewQuery, id).Scan(
		&v.ID, &userID, &v.HotelID, &v.HotelName, &ownerID, &v.RoomID, &v.RoomType,
		&v.CheckIn, &v.CheckOut, &v.Guests, &v.Total, &couponCode, &v.Status,
		&holdExpiresAt, &v.Paid, &cancelReason, &v.CancellationFee,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "reservation not found", err)
		}
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find reservation view", err)
	}

	v.UserID = pgconv.UUIDPtrFromPgtype(userID)
	v.OwnerID = pgconv.UUIDPtrFromPgtype(ownerID)
	v.CouponCode = pgconv.StringPtrFromPgtype(couponCode)
	v.CancelReason = pgconv.StringPtrFromPgtype(cancelReason)
	v.HoldExpiresAt = pgconv.TimePtrFromPgtype(holdExpiresAt)
	return &v, nil
}

func (s *ReservationReadStore) FindHotelOwner(ctx context.Context, hotelID uuid.UUID) (*uuid.UUID, error) {
	var owner pgtype.UUID
	err := s.db.QueryRow(ctx, `SELECT owner_id FROM hotels WHERE id = $1`, hotelID).Scan(&owner)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "hotel not found", err)
		}
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find hotel owner", err)
	}
	return pgconv.UUIDPtrFromPgtype(owner), nil
}

// ListByHotel pages newest first with a (created_at, id) keyset.
func (s *ReservationReadStore) ListByHotel(
	ctx context.Context,
	hotelID uuid.UUID,
	status string,
	after *queries.Cursor,
	limit int32,
) ([]*queries.ReservationListItem, error) {
	var (
		rows pgx.Rows
		err  error
	)
	statusFilter := pgtype.Text{String: status, Valid: status != ""}

	if after == nil {
		rows, err = s.db.Query(ctx, `
SELECT `+listColumns+`
FROM bookings b
JOIN rooms r ON r.id = b.room_id
WHERE b.hotel_id = $1 AND ($2::text IS NULL OR b.status = $2)
ORDER BY b.created_at DESC, b.id DESC
LIMIT $3`, hotelID, statusFilter, limit)
	} else {
		rows, err = s.db.Query(ctx, `
SELECT `+listColumns+`
FROM bookings b
JOIN rooms r ON r.id = b.room_id
WHERE b.hotel_id = $1 AND ($2::text IS NULL OR b.status = $2)
  AND (b.created_at, b.id) < ($3, $4)
ORDER BY b.created_at DESC, b.id DESC
LIMIT $5`, hotelID, statusFilter, after.CreatedAt, after.ID, limit)
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to list hotel reservations", err)
	}
	defer rows.Close()

	result := make([]*queries.ReservationListItem, 0, limit)
	for rows.Next() {
		var (
			item   queries.ReservationListItem
			userID pgtype.UUID
		)
		if err := rows.Scan(&item.ID, &userID, &item.RoomID, &item.RoomType, &item.CheckIn,
			&item.CheckOut, &item.Guests, &item.Status, &item.Total, &item.Paid, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan hotel reservation", err)
		}
		item.UserID = pgconv.UUIDPtrFromPgtype(userID)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to iterate hotel reservations", err)
	}
	return result, nil
}
