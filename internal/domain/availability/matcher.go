package availability

import (
	"time"

	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrNoRoomAvailable = errs.Conflict("no room available")

// Request describes the stay being matched against a room pool.
type Request struct {
	Window   stay.Window
	RoomType string
	Now      time.Time
}

// FindRoom returns the first listed room in pool order with no blocking reservation
// overlapping the requested window. It never creates rooms; that fallback belongs to
// the caller.
func FindRoom(pool []*room.Room, active []*reservation.Reservation, req Request) (*room.Room, error) {
	byRoom := make(map[uuid.UUID][]*reservation.Reservation, len(active))
	for _, r := range active {
		byRoom[r.RoomID()] = append(byRoom[r.RoomID()], r)
	}

	for _, candidate := range pool {
		if !candidate.IsAvailable() || !candidate.MatchesType(req.RoomType) {
			continue
		}
		if isFree(byRoom[candidate.ID()], req) {
			return candidate, nil
		}
	}
	return nil, ErrNoRoomAvailable
}

func isFree(bookings []*reservation.Reservation, req Request) bool {
	for _, b := range bookings {
		if b.BlocksRoom(req.Now) && b.Window().Overlaps(req.Window) {
			return false
		}
	}
	return true
}
