package queries

import (
	"context"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.NotFound("reservation not found")
	ErrHotelNotFound       = errs.NotFound("hotel not found")
	ErrForbidden           = errs.Authorization("not allowed to view this booking")
)

type ListFilter struct {
	Status string
	After  *Cursor
	Limit  int
}

type ReservationPage struct {
	Items []*ReservationListItem
	Next  *Cursor
}

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/queries/reservation.go -package=queriesmock
type ReservationQueries interface {
	GetByID(ctx context.Context, viewer Viewer, id uuid.UUID) (*ReservationView, error)
	ListByHotel(ctx context.Context, viewer Viewer, hotelID uuid.UUID, f ListFilter) (*ReservationPage, error)
}

type ReservationViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	// FindHotelOwner returns the owner id, nil for an unowned hotel.
	FindHotelOwner(ctx context.Context, hotelID uuid.UUID) (*uuid.UUID, error)
	// ListByHotel returns up to limit rows strictly after the cursor, newest first.
	ListByHotel(ctx context.Context, hotelID uuid.UUID, status string, after *Cursor, limit int32) ([]*ReservationListItem, error)
}

type reservationQueriesImpl struct {
	repo ReservationViewRepo
}

func NewReservationQueries(repo ReservationViewRepo) ReservationQueries {
	return &reservationQueriesImpl{repo: repo}
}

// GetByID lets the guest, the hotel owner or an admin read a booking. Anonymous
// bookings are readable by id alone.
func (q *reservationQueriesImpl) GetByID(ctx context.Context, viewer Viewer, id uuid.UUID) (*ReservationView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	if view.UserID == nil || viewer.Admin || viewer.is(view.UserID) || viewer.is(view.OwnerID) {
		return view, nil
	}
	return nil, ErrForbidden
}

func (q *reservationQueriesImpl) ListByHotel(ctx context.Context, viewer Viewer, hotelID uuid.UUID, f ListFilter) (*ReservationPage, error) {
	owner, err := q.repo.FindHotelOwner(ctx, hotelID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	if !viewer.Admin && !viewer.is(owner) {
		return nil, ErrForbidden
	}

	limit := ValidateLimit(f.Limit)
	// One extra row tells whether another page exists.
	rows, err := q.repo.ListByHotel(ctx, hotelID, f.Status, f.After, int32(limit+1))
	if err != nil {
		return nil, err
	}

	page := &ReservationPage{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[limit-1]
		page.Next = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return page, nil
}
