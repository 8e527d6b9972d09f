//go:build unit

// Package memstore is an in-memory UnitOfWork for usecase tests. A failed Within rolls
// every table back to its state before the call.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"hotel-reservation-engine/internal/domain/coupon"
	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/domain/stay"
	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type Message struct {
	ReservationID uuid.UUID
	Body          string
	At            time.Time
}

type Store struct {
	mu sync.Mutex

	hotels       map[uuid.UUID]*hotel.Hotel
	rooms        map[uuid.UUID]*room.Room
	roomOrder    []uuid.UUID
	reservations map[uuid.UUID]reservation.Snapshot
	resOrder     []uuid.UUID
	coupons      map[uuid.UUID]couponRow

	Messages []Message
	Events   []shared.NotificationEvent

	// PublishErr and AppendErr simulate broken side-effect collaborators.
	PublishErr error
	AppendErr  error
}

type couponRow struct {
	params coupon.Params
}

func New() *Store {
	return &Store{
		hotels:       map[uuid.UUID]*hotel.Hotel{},
		rooms:        map[uuid.UUID]*room.Room{},
		reservations: map[uuid.UUID]reservation.Snapshot{},
		coupons:      map[uuid.UUID]couponRow{},
	}
}

// Seeding

func (s *Store) AddHotel(h *hotel.Hotel) { s.hotels[h.ID()] = h }

func (s *Store) AddRoom(r *room.Room) {
	s.rooms[r.ID()] = r
	s.roomOrder = append(s.roomOrder, r.ID())
}

func (s *Store) AddCoupon(p coupon.Params) { s.coupons[p.ID] = couponRow{params: p} }

func (s *Store) AddReservation(res *reservation.Reservation) {
	s.reservations[res.ID()] = res.Snapshot()
	s.resOrder = append(s.resOrder, res.ID())
}

// Inspection

func (s *Store) Reservation(id uuid.UUID) (*reservation.Reservation, bool) {
	snap, ok := s.reservations[id]
	if !ok {
		return nil, false
	}
	return reservation.Reconstruct(snap), true
}

func (s *Store) CouponUsed(id uuid.UUID) int { return s.coupons[id].params.Used }

func (s *Store) RoomCount() int { return len(s.rooms) }

func (s *Store) Room(id uuid.UUID) *room.Room { return s.rooms[id] }

// shared.UnitOfWork

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.save()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.restore(saved)
		return err
	}
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.Within(ctx, fn)
}

type saved struct {
	rooms        map[uuid.UUID]*room.Room
	roomOrder    []uuid.UUID
	reservations map[uuid.UUID]reservation.Snapshot
	resOrder     []uuid.UUID
	coupons      map[uuid.UUID]couponRow
}

func (s *Store) save() saved {
	return saved{
		rooms:        maps.Clone(s.rooms),
		roomOrder:    slices.Clone(s.roomOrder),
		reservations: maps.Clone(s.reservations),
		resOrder:     slices.Clone(s.resOrder),
		coupons:      maps.Clone(s.coupons),
	}
}

func (s *Store) restore(v saved) {
	s.rooms, s.roomOrder = v.rooms, v.roomOrder
	s.reservations, s.resOrder = v.reservations, v.resOrder
	s.coupons = v.coupons
}

// shared.Notifier and shared.MessageThread

func (s *Store) Publish(_ context.Context, ev shared.NotificationEvent) error {
	if s.PublishErr != nil {
		return s.PublishErr
	}
	s.Events = append(s.Events, ev)
	return nil
}

func (s *Store) AppendSystem(_ context.Context, id uuid.UUID, body string, at time.Time) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.Messages = append(s.Messages, Message{ReservationID: id, Body: body, At: at})
	return nil
}

func (s *Store) EventTypes() []shared.EventType {
	out := make([]shared.EventType, len(s.Events))
	for i, ev := range s.Events {
		out[i] = ev.Type
	}
	return out
}

func notFound() error  { return infra.RepositoryError{Kind: infra.KindNotFound} }
func condFailed() error { return infra.RepositoryError{Kind: infra.KindConditionFailed} }

type memTx struct{ s *Store }

func (t *memTx) Hotels() shared.HotelRepository             { return hotelRepo{t.s} }
func (t *memTx) Rooms() shared.RoomRepository               { return roomRepo{t.s} }
func (t *memTx) Reservations() shared.ReservationRepository { return reservationRepo{t.s} }
func (t *memTx) Coupons() shared.CouponRepository           { return couponRepo{t.s} }

type hotelRepo struct{ s *Store }

func (r hotelRepo) FindByID(_ context.Context, id uuid.UUID) (*hotel.Hotel, error) {
	h, ok := r.s.hotels[id]
	if !ok {
		return nil, notFound()
	}
	return h, nil
}

type roomRepo struct{ s *Store }

func (r roomRepo) FindByID(_ context.Context, id uuid.UUID) (*room.Room, error) {
	rm, ok := r.s.rooms[id]
	if !ok {
		return nil, notFound()
	}
	return rm, nil
}

func (r roomRepo) ListByHotel(_ context.Context, hotelID uuid.UUID) ([]*room.Room, error) {
	var out []*room.Room
	for _, id := range r.s.roomOrder {
		if rm := r.s.rooms[id]; rm.HotelID() == hotelID {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (r roomRepo) Create(_ context.Context, rm *room.Room) error {
	r.s.rooms[rm.ID()] = rm
	r.s.roomOrder = append(r.s.roomOrder, rm.ID())
	return nil
}

func (r roomRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	rm, ok := r.s.rooms[id]
	if !ok {
		return notFound()
	}
	r.s.rooms[id] = room.Reconstruct(rm.ID(), rm.HotelID(), rm.Type(), rm.Price(), rm.Members(), rm.IsAvailable(), blocked)
	return nil
}

type reservationRepo struct{ s *Store }

func (r reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	r.s.reservations[res.ID()] = res.Snapshot()
	r.s.resOrder = append(r.s.resOrder, res.ID())
	return nil
}

func (r reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	snap, ok := r.s.reservations[id]
	if !ok {
		return nil, notFound()
	}
	return reservation.Reconstruct(snap), nil
}

func (r reservationRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.FindByID(ctx, id)
}

func (r reservationRepo) FindLatestHeld(_ context.Context, userID, hotelID uuid.UUID) (*reservation.Reservation, error) {
	for i := len(r.s.resOrder) - 1; i >= 0; i-- {
		snap := r.s.reservations[r.s.resOrder[i]]
		if snap.Status == reservation.StatusHeld && snap.HotelID == hotelID &&
			snap.UserID != nil && *snap.UserID == userID {
			return reservation.Reconstruct(snap), nil
		}
	}
	return nil, notFound()
}

func (r reservationRepo) ListBlocking(_ context.Context, hotelID uuid.UUID, w stay.Window) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, id := range r.s.resOrder {
		snap := r.s.reservations[id]
		if snap.HotelID != hotelID || !slices.Contains(reservation.BlockingStatuses, snap.Status) {
			continue
		}
		if snap.Window.Overlaps(w) {
			out = append(out, reservation.Reconstruct(snap))
		}
	}
	return out, nil
}

func (r reservationRepo) UpdateFrom(_ context.Context, res *reservation.Reservation, from reservation.Status) error {
	stored, ok := r.s.reservations[res.ID()]
	if !ok || stored.Status != from {
		return condFailed()
	}
	r.s.reservations[res.ID()] = res.Snapshot()
	return nil
}

type couponRepo struct{ s *Store }

func (r couponRepo) FindByID(_ context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row, ok := r.s.coupons[id]
	if !ok {
		return nil, notFound()
	}
	return coupon.NewCoupon(row.params)
}

func (r couponRepo) FindByCode(_ context.Context, code coupon.Code) (*coupon.Coupon, error) {
	for _, row := range r.s.coupons {
		if c, err := coupon.NewCouponCode(row.params.Code); err == nil && c == code {
			return coupon.NewCoupon(row.params)
		}
	}
	return nil, notFound()
}

func (r couponRepo) IncrementUsed(_ context.Context, id uuid.UUID) error {
	row, ok := r.s.coupons[id]
	if !ok {
		return notFound()
	}
	if row.params.UsageLimit > 0 && row.params.Used >= row.params.UsageLimit {
		return condFailed()
	}
	row.params.Used++
	r.s.coupons[id] = row
	return nil
}

func (r couponRepo) DecrementUsed(_ context.Context, id uuid.UUID) error {
	row, ok := r.s.coupons[id]
	if !ok {
		return notFound()
	}
	if row.params.Used > 0 {
		row.params.Used--
	}
	r.s.coupons[id] = row
	return nil
}
