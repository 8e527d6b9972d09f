package response

import (
	"time"

	"hotel-reservation-engine/internal/usecase/commands"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	HotelID         uuid.UUID  `json:"hotel_id"`
	HotelName       string     `json:"hotel_name"`
	RoomID          uuid.UUID  `json:"room_id"`
	RoomType        string     `json:"room_type"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        time.Time  `json:"check_out"`
	Guests          int        `json:"guests"`
	Total           int64      `json:"total"`
	CouponCode      *string    `json:"coupon_code,omitempty"`
	Status          string     `json:"status"`
	HoldExpiresAt   *time.Time `json:"hold_expires_at,omitempty"`
	Paid            bool       `json:"paid"`
	CancelReason    *string    `json:"cancel_reason,omitempty"`
	CancellationFee int64      `json:"cancellation_fee"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func FromReservationView(v *queries.ReservationView) (*BookingResponse, error) {
	var res BookingResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

type BookingListItemResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	RoomID    uuid.UUID  `json:"room_id"`
	RoomType  string     `json:"room_type"`
	CheckIn   time.Time  `json:"check_in"`
	CheckOut  time.Time  `json:"check_out"`
	Guests    int        `json:"guests"`
	Status    string     `json:"status"`
	Total     int64      `json:"total"`
	Paid      bool       `json:"paid"`
	CreatedAt time.Time  `json:"created_at"`
}

type BookingListResponse struct {
	Bookings   []BookingListItemResponse `json:"bookings"`
	NextCursor string                    `json:"next_cursor,omitempty"`
}

func FromReservationPage(p *queries.ReservationPage) (*BookingListResponse, error) {
	res := BookingListResponse{Bookings: make([]BookingListItemResponse, 0, len(p.Items))}
	if err := copier.Copy(&res.Bookings, p.Items); err != nil {
		return nil, err
	}
	if p.Next != nil {
		res.NextCursor = queries.EncodeCursor(*p.Next)
	}
	return &res, nil
}

type HoldResponse struct {
	ID            uuid.UUID `json:"id"`
	Status        string    `json:"status"`
	RoomID        uuid.UUID `json:"room_id"`
	HoldExpiresAt time.Time `json:"hold_expires_at"`
	Total         int64     `json:"total"`
	Reused        bool      `json:"reused"`
}

func FromCreateResult(r *commands.CreateReservationResult) *HoldResponse {
	return &HoldResponse{
		ID:            r.ReservationID,
		Status:        string(r.Status),
		RoomID:        r.RoomID,
		HoldExpiresAt: r.HoldExpiresAt,
		Total:         r.Total.Int64(),
		Reused:        r.Reused,
	}
}

type TransitionResponse struct {
	ID              uuid.UUID `json:"id"`
	Status          string    `json:"status"`
	Total           int64     `json:"total"`
	CancellationFee int64     `json:"cancellation_fee"`
}

func FromTransitionResult(r *commands.TransitionResult) *TransitionResponse {
	return &TransitionResponse{
		ID:              r.ReservationID,
		Status:          string(r.Status),
		Total:           r.Total.Int64(),
		CancellationFee: r.CancellationFee.Int64(),
	}
}
