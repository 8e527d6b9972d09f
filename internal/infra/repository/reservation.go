package repository

import (
	"context"
	"log/slog"
	"time"

	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/db"
	"hotel-reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `id, user_id, hotel_id, room_id, check_in, check_out, guests, total,
	coupon_id, coupon_code, status, hold_expires_at, paid, cancel_reason, cancellation_fee,
	owner_token_hash, guest_token_hash, created_at, updated_at`

type ReservationRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewReservationRepository(dbtx db.DBTX, logger *slog.Logger) *ReservationRepository {
	return &ReservationRepository{
		db:     dbtx,
		logger: logger.With(slog.String("repository", "reservation")),
	}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	s := res.Snapshot()
	_, err := r.db.Exec(ctx,
		`INSERT INTO bookings (`+reservationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		s.ID,
		pgconv.UUIDPtrToPgtype(s.UserID),
		s.HotelID,
		s.RoomID,
		s.Window.CheckIn(),
		s.Window.CheckOut(),
		s.Guests,
		s.Total.Int64(),
		pgconv.UUIDPtrToPgtype(s.CouponID),
		pgconv.StringPtrToPgtype(s.CouponCode),
		s.Status.String(),
		pgconv.TimePtrToPgtype(s.HoldExpiresAt),
		s.Paid,
		pgconv.StringPtrToPgtype(s.CancelReason),
		s.CancellationFee.Int64(),
		s.OwnerTokenHash,
		s.GuestTokenHash,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		switch {
		case pgconv.IsUniqueViolation(err):
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "reservation already exists", err)
		case pgconv.IsForeignKeyViolation(err):
			return infra.WrapRepoErr(r.logger, infra.KindForeignKeyViolated, "reservation references unknown hotel, room or coupon", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.findOne(ctx, `SELECT `+reservationColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.findOne(ctx, `SELECT `+reservationColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

// FindLatestHeld locks the row so two concurrent requests cannot both expire or reuse it.
func (r *ReservationRepository) FindLatestHeld(ctx context.Context, userID, hotelID uuid.UUID) (*reservation.Reservation, error) {
	return r.findOne(ctx,
		`SELECT `+reservationColumns+` FROM bookings
		 WHERE user_id = $1 AND hotel_id = $2 AND status = 'held'
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1
		 FOR UPDATE`, userID, hotelID)
}

func (r *ReservationRepository) ListBlocking(ctx context.Context, hotelID uuid.UUID, w stay.Window) ([]*reservation.Reservation, error) {
	statuses := make([]string, 0, len(reservation.BlockingStatuses))
	for _, s := range reservation.BlockingStatuses {
		statuses = append(statuses, s.String())
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+reservationColumns+` FROM bookings
		 WHERE hotel_id = $1 AND status = ANY($2) AND check_in < $4 AND check_out > $3`,
		hotelID, statuses, w.CheckIn(), w.CheckOut())
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list blocking reservations", err)
	}
	defer rows.Close()

	var result []*reservation.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan reservation", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate reservations", err)
	}
	return result, nil
}

// UpdateFrom writes the mutable fields only while the stored status is still from.
func (r *ReservationRepository) UpdateFrom(ctx context.Context, res *reservation.Reservation, from reservation.Status) error {
	s := res.Snapshot()
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings
		 SET status = $3, paid = $4, total = $5, cancel_reason = $6, cancellation_fee = $7,
		     hold_expires_at = $8, owner_token_hash = $9, guest_token_hash = $10, updated_at = $11
		 WHERE id = $1 AND status = $2`,
		s.ID,
		from.String(),
		s.Status.String(),
		s.Paid,
		s.Total.Int64(),
		pgconv.StringPtrToPgtype(s.CancelReason),
		s.CancellationFee.Int64(),
		pgconv.TimePtrToPgtype(s.HoldExpiresAt),
		s.OwnerTokenHash,
		s.GuestTokenHash,
		s.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindConditionFailed,
			"reservation is no longer in status "+from.String(), nil)
	}
	return nil
}

func (r *ReservationRepository) findOne(ctx context.Context, query string, args ...any) (*reservation.Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "reservation not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find reservation", err)
	}
	return res, nil
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		s                  reservation.Snapshot
		userID, couponID   pgtype.UUID
		couponCode, reason pgtype.Text
		holdExpiresAt      pgtype.Timestamptz
		checkIn, checkOut  time.Time
		total, fee         int64
		status             string
	)
	if err := row.Scan(
		&s.ID, &userID, &s.HotelID, &s.RoomID, &checkIn, &checkOut, &s.Guests, &total,
		&couponID, &couponCode, &status, &holdExpiresAt, &s.Paid, &reason, &fee,
		&s.OwnerTokenHash, &s.GuestTokenHash, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	window, err := stay.New(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	st, err := reservation.NewStatus(status)
	if err != nil {
		return nil, err
	}

	s.Window = window
	s.Status = st
	s.UserID = pgconv.UUIDPtrFromPgtype(userID)
	s.CouponID = pgconv.UUIDPtrFromPgtype(couponID)
	s.CouponCode = pgconv.StringPtrFromPgtype(couponCode)
	s.CancelReason = pgconv.StringPtrFromPgtype(reason)
	s.HoldExpiresAt = pgconv.TimePtrFromPgtype(holdExpiresAt)
	s.Total = pricing.Money(total)
	s.CancellationFee = pricing.Money(fee)
	return reservation.Reconstruct(s), nil
}
