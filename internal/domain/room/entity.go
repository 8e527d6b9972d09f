package room

import (
	"strings"

	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyRoomType   = errs.Validation("room type cannot be empty")
	ErrInvalidCapacity = errs.Validation("room capacity must be positive")
)

type Room struct {
	id        uuid.UUID
	hotelID   uuid.UUID
	roomType  string
	price     pricing.Money
	members   int
	available bool
	blocked   bool
}

func Reconstruct(id, hotelID uuid.UUID, roomType string, price pricing.Money, members int, available, blocked bool) *Room {
	return &Room{
		id:        id,
		hotelID:   hotelID,
		roomType:  roomType,
		price:     price,
		members:   members,
		available: available,
		blocked:   blocked,
	}
}

// Synthesize creates a listed room of the requested type when the hotel has none free.
func Synthesize(hotelID uuid.UUID, roomType string, basePrice pricing.Money, members int) (*Room, error) {
	roomType = NormalizeType(roomType)
	if roomType == "" {
		return nil, ErrEmptyRoomType
	}
	if members <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Room{
		id:        uuid.New(),
		hotelID:   hotelID,
		roomType:  roomType,
		price:     basePrice,
		members:   members,
		available: true,
	}, nil
}

// NormalizeType makes free-text labels comparable.
func NormalizeType(t string) string {
	return strings.ToLower(strings.Join(strings.Fields(t), " "))
}

func (r *Room) MatchesType(t string) bool {
	return t == "" || NormalizeType(r.roomType) == NormalizeType(t)
}

// PriceOr returns the room's own day price, or fallback when the room has none.
func (r *Room) PriceOr(fallback pricing.Money) pricing.Money {
	return r.price.Or(fallback)
}

func (r *Room) Unblock() { r.blocked = false }

func (r *Room) ID() uuid.UUID        { return r.id }
func (r *Room) HotelID() uuid.UUID   { return r.hotelID }
func (r *Room) Type() string         { return r.roomType }
func (r *Room) Price() pricing.Money { return r.price }
func (r *Room) Members() int         { return r.members }
func (r *Room) IsAvailable() bool    { return r.available }
func (r *Room) IsBlocked() bool      { return r.blocked }
