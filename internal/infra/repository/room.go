package repository

import (
	"context"
	"log/slog"

	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/infra/db"
	"hotel-reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const roomColumns = `id, hotel_id, room_type, price, members, available, blocked`

type RoomRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewRoomRepository(dbtx db.DBTX, logger *slog.Logger) *RoomRepository {
	return &RoomRepository{
		db:     dbtx,
		logger: logger.With(slog.String("repository", "room")),
	}
}

func (r *RoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
	rm, err := scanRoom(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "room not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find room by ID", err)
	}
	return rm, nil
}

// ListByHotel orders by creation so the matcher always walks the pool the same way.
func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]*room.Room, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE hotel_id = $1 ORDER BY created_at, id`, hotelID)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list rooms", err)
	}
	defer rows.Close()

	var result []*room.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan room", err)
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate rooms", err)
	}
	return result, nil
}

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO rooms (id, hotel_id, room_type, price, members, available, blocked)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rm.ID(), rm.HotelID(), rm.Type(), rm.Price().Int64(), rm.Members(), rm.IsAvailable(), rm.IsBlocked())
	if err != nil {
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr(r.logger, infra.KindForeignKeyViolated, "room references unknown hotel", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create room", err)
	}
	return nil
}

func (r *RoomRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE rooms SET blocked = $2, updated_at = now() WHERE id = $1`, id, blocked)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to update room block flag", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "room not found", nil)
	}
	return nil
}

func scanRoom(row pgx.Row) (*room.Room, error) {
	var (
		id, hotelID          uuid.UUID
		roomType             string
		price                int64
		members              int
		available, isBlocked bool
	)
	if err := row.Scan(&id, &hotelID, &roomType, &price, &members, &available, &isBlocked); err != nil {
		return nil, err
	}
	return room.Reconstruct(id, hotelID, roomType, pricing.Money(price), members, available, isBlocked), nil
}
