package reservation

import "strings"

type Status string

const (
	StatusHeld       Status = "held"
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
	StatusExpired    Status = "expired"
)

// BlockingStatuses are the states that can occupy a room.
var BlockingStatuses = []Status{StatusHeld, StatusPending, StatusConfirmed, StatusCheckedIn}

func NewStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusHeld, StatusPending, StatusConfirmed, StatusCheckedIn,
		StatusCheckedOut, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled || s == StatusExpired
}

func (s Status) IsBlocking() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

func (s Status) IsCancellable() bool {
	return s == StatusHeld || s == StatusConfirmed || s == StatusCheckedIn
}

// Actor identifies which side of the booking performs an action.
type Actor string

const (
	ActorGuest Actor = "guest"
	ActorOwner Actor = "owner"
)

func NewActor(s string) (Actor, error) {
	switch a := Actor(strings.ToLower(strings.TrimSpace(s))); a {
	case ActorGuest, ActorOwner:
		return a, nil
	default:
		return "", ErrInvalidActor
	}
}

func (a Actor) String() string { return string(a) }
