package request

import (
	"hotel-reservation-engine/internal/usecase/commands"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

// CheckIn and CheckOut accept "YYYY-MM-DD HH:MM" or a bare date in the hotel timezone.
// An omitted CheckOut defaults to one day after check-in.
type CreateBookingRequest struct {
	HotelID    uuid.UUID  `json:"hotel_id" binding:"required"`
	CheckIn    string     `json:"check_in" binding:"required"`
	CheckOut   string     `json:"check_out" binding:"omitempty,max=64"`
	Guests     int        `json:"guests" binding:"required,min=1,max=20"`
	RoomType   string     `json:"room_type" binding:"omitempty,max=64"`
	CouponID   *uuid.UUID `json:"coupon_id" binding:"omitempty,excluded_with=CouponCode"`
	CouponCode *string    `json:"coupon_code" binding:"omitempty,min=1,max=64"`
}

func (r *CreateBookingRequest) ToInput(userID *uuid.UUID) commands.CreateReservationInput {
	return commands.CreateReservationInput{
		HotelID:    r.HotelID,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		Guests:     r.Guests,
		UserID:     userID,
		RoomType:   r.RoomType,
		CouponID:   r.CouponID,
		CouponCode: r.CouponCode,
	}
}

type QuoteRequest struct {
	HotelID    uuid.UUID  `json:"hotel_id" binding:"required"`
	CheckIn    string     `json:"check_in" binding:"required"`
	CheckOut   string     `json:"check_out" binding:"omitempty,max=64"`
	RoomType   string     `json:"room_type" binding:"omitempty,max=64"`
	CouponID   *uuid.UUID `json:"coupon_id" binding:"omitempty,excluded_with=CouponCode"`
	CouponCode *string    `json:"coupon_code" binding:"omitempty,min=1,max=64"`
}

func (r *QuoteRequest) ToInput() queries.QuoteInput {
	return queries.QuoteInput{
		HotelID:    r.HotelID,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		RoomType:   r.RoomType,
		CouponID:   r.CouponID,
		CouponCode: r.CouponCode,
	}
}

// Length is enforced by the cancellation policy so a short reason surfaces as a policy
// violation rather than a malformed request.
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=1000,reason"`
}

type ConfirmBookingRequest struct {
	Token string `json:"token" binding:"omitempty,hexadecimal,len=64"`
}

type ListBookingsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=held pending confirmed checked_in checked_out cancelled expired"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	After  string `form:"after"`
}

type EmailActionQuery struct {
	Token  string `form:"token" binding:"required,hexadecimal,len=64"`
	Reason string `form:"reason" binding:"omitempty,max=1000,reason"`
}
