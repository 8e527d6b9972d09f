package stay

import (
	"math"
	"strings"
	"time"

	"hotel-reservation-engine/internal/pkg/clock"
	"hotel-reservation-engine/internal/pkg/errs"
)

const DefaultLength = 24 * time.Hour

var (
	ErrInvalidCheckIn = errs.Validation("invalid check-in")
	ErrCheckInInPast  = errs.Validation("check-in is in the past")
	ErrInvalidWindow  = errs.Validation("check-out must be after check-in")
)

// Accepted input layouts, tried in order. Layouts without an offset are read in the
// operating timezone carried by now.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Window is a half-open stay interval [checkIn, checkOut).
type Window struct {
	checkIn  time.Time
	checkOut time.Time
}

type Duration struct {
	StayDays   int
	ExtraHours int
}

// New builds a window from already validated instants, e.g. when loading from storage.
func New(checkIn, checkOut time.Time) (Window, error) {
	if !checkOut.After(checkIn) {
		return Window{}, ErrInvalidWindow
	}
	return Window{checkIn: checkIn, checkOut: checkOut}, nil
}

// Normalize parses raw check-in/check-out values relative to now.
// A missing, unparsable or non-positive check-out becomes check-in plus one day.
func Normalize(checkInRaw, checkOutRaw string, now time.Time) (Window, error) {
	loc := now.Location()

	checkIn, ok := parse(checkInRaw, loc)
	if !ok {
		return Window{}, ErrInvalidCheckIn
	}
	// Offsets in the input are honoured, but dates are read in the operating zone.
	checkIn = checkIn.In(loc)

	checkOut, ok := parse(checkOutRaw, loc)
	if !ok || !checkOut.After(checkIn) {
		checkOut = checkIn.Add(DefaultLength)
	}
	checkOut = checkOut.In(loc)

	if checkIn.Before(clock.StartOfDay(now)) {
		return Window{}, ErrCheckInInPast
	}
	if clock.SameDay(now, checkIn) && timeOfDay(checkIn) < timeOfDay(now) {
		return Window{}, ErrCheckInInPast
	}

	return Window{checkIn: checkIn, checkOut: checkOut}, nil
}

func (w Window) CheckIn() time.Time  { return w.checkIn }
func (w Window) CheckOut() time.Time { return w.checkOut }
func (w Window) IsZero() bool        { return w.checkIn.IsZero() && w.checkOut.IsZero() }

// Billable splits the stay into whole day blocks and leftover hours. Any stay of up to
// 24 hours counts as a single day.
func (w Window) Billable() Duration {
	hours := int(math.Ceil(w.checkOut.Sub(w.checkIn).Hours()))
	if hours <= 0 {
		return Duration{}
	}
	if hours <= 24 {
		return Duration{StayDays: 1}
	}
	days := hours / 24
	return Duration{StayDays: days, ExtraHours: hours - days*24}
}

// Overlaps reports half-open intersection; touching endpoints do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.checkIn.Before(other.checkOut) && w.checkOut.After(other.checkIn)
}

func parse(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func timeOfDay(t time.Time) time.Duration {
	return t.Sub(clock.StartOfDay(t))
}
