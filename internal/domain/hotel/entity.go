package hotel

import (
	"strings"

	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrHotelNotBookable = errs.Conflict("hotel is not available for booking")
	ErrEmptyHotelName   = errs.Validation("hotel name cannot be empty")
	ErrInvalidStatus    = errs.Validation("invalid hotel status")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func NewStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string { return string(s) }

// Hotel is read-only from the booking engine's point of view.
type Hotel struct {
	id        uuid.UUID
	name      string
	status    Status
	ownerID   *uuid.UUID
	basePrice pricing.Money
	policy    pricing.Policy
}

func Reconstruct(id uuid.UUID, name string, status Status, ownerID *uuid.UUID, basePrice pricing.Money, policy pricing.Policy) (*Hotel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyHotelName
	}
	if basePrice < 0 {
		return nil, pricing.ErrNegativeMoney
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Hotel{
		id:        id,
		name:      name,
		status:    status,
		ownerID:   ownerID,
		basePrice: basePrice,
		policy:    policy,
	}, nil
}

// EnsureBookable requires an approved hotel with an assigned owner.
func (h *Hotel) EnsureBookable() error {
	if h.status != StatusApproved || h.ownerID == nil || *h.ownerID == uuid.Nil {
		return ErrHotelNotBookable
	}
	return nil
}

func (h *Hotel) IsOwnedBy(userID uuid.UUID) bool {
	return h.ownerID != nil && *h.ownerID == userID
}

func (h *Hotel) ID() uuid.UUID                 { return h.id }
func (h *Hotel) Name() string                  { return h.name }
func (h *Hotel) Status() Status                { return h.status }
func (h *Hotel) OwnerID() *uuid.UUID           { return h.ownerID }
func (h *Hotel) BasePrice() pricing.Money      { return h.basePrice }
func (h *Hotel) PricingPolicy() pricing.Policy { return h.policy }
