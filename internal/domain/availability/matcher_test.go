//go:build unit

package availability_test

import (
	"testing"
	"time"

	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2030, 5, 15, 9, 0, 0, 0, time.UTC)

func TestFindRoom(t *testing.T) {
	hotelID := uuid.New()
	checkIn := now.Add(48 * time.Hour)
	w, err := stay.New(checkIn, checkIn.Add(24*time.Hour))
	require.NoError(t, err)

	roomA := room.Reconstruct(uuid.New(), hotelID, "double", 2400, 2, true, false)
	roomB := room.Reconstruct(uuid.New(), hotelID, "double", 2400, 2, true, false)
	unlisted := room.Reconstruct(uuid.New(), hotelID, "double", 2400, 2, false, false)
	suite := room.Reconstruct(uuid.New(), hotelID, "suite", 5000, 4, true, false)
	flagged := room.Reconstruct(uuid.New(), hotelID, "double", 2400, 2, true, true)

	booking := func(roomID uuid.UUID, status reservation.Status, in time.Time, mutate ...func(*builder.ReservationBuilder)) *reservation.Reservation {
		b := builder.NewReservationBuilder(now).WithStatus(status).WithCheckIn(in)
		b.RoomID = roomID
		for _, m := range mutate {
			b.With(m)
		}
		return b.BuildDomain()
	}
	staleHold := func(b *builder.ReservationBuilder) {
		past := now.Add(-time.Minute)
		b.HoldExpiresAt = &past
	}

	testCases := []struct {
		name     string
		pool     []*room.Room
		active   []*reservation.Reservation
		roomType string
		want     *room.Room
	}{
		{name: "first free room in pool order", pool: []*room.Room{roomA, roomB}, roomType: "double", want: roomA},
		{name: "skips room with confirmed overlap", pool: []*room.Room{roomA, roomB}, active: []*reservation.Reservation{
			booking(roomA.ID(), reservation.StatusConfirmed, checkIn.Add(-12*time.Hour)),
		}, roomType: "double", want: roomB},
		{name: "active hold blocks", pool: []*room.Room{roomA, roomB}, active: []*reservation.Reservation{
			booking(roomA.ID(), reservation.StatusHeld, checkIn),
		}, roomType: "double", want: roomB},
		{name: "stale hold is transparent", pool: []*room.Room{roomA, roomB}, active: []*reservation.Reservation{
			booking(roomA.ID(), reservation.StatusHeld, checkIn, staleHold),
		}, roomType: "double", want: roomA},
		{name: "pending blocks", pool: []*room.Room{roomA}, active: []*reservation.Reservation{
			booking(roomA.ID(), reservation.StatusPending, checkIn),
		}, roomType: "double"},
		{name: "checked in blocks", pool: []*room.Room{roomA}, active: []*reservation.Reservation{
			booking(roomA.ID(), reservation.StatusCheckedIn, checkIn.Add(-2*time.Hour)),
		}, roomType: "double"},
		{name: "cancelled does not block", pool: []*room.Room{roomA}, active: []*reservation.Reservation{
			booking(roomA.ID(), reservation.StatusCancelled, checkIn),
		}, roomType: "double", want: roomA},
		{name: "touching stays do not conflict", pool: []*room.Room{roomA}, active: []*reservation.Reservation{
			booking(roomA.ID(), reservation.StatusConfirmed, checkIn.Add(-24*time.Hour)),
		}, roomType: "double", want: roomA},
		{name: "unlisted rooms are skipped", pool: []*room.Room{unlisted, roomB}, roomType: "double", want: roomB},
		{name: "blocked flag is not a filter", pool: []*room.Room{flagged, roomB}, roomType: "double", want: flagged},
		{name: "type filter", pool: []*room.Room{roomA, suite}, roomType: "Suite", want: suite},
		{name: "no type takes any listed room", pool: []*room.Room{suite, roomA}, roomType: "", want: suite},
		{name: "empty pool", pool: nil, roomType: "double"},
		{name: "type missing from pool", pool: []*room.Room{roomA}, roomType: "penthouse"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := availability.FindRoom(tc.pool, tc.active, availability.Request{
				Window:   w,
				RoomType: tc.roomType,
				Now:      now,
			})
			if tc.want == nil {
				require.ErrorIs(t, err, availability.ErrNoRoomAvailable)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want.ID(), got.ID())
		})
	}
}
