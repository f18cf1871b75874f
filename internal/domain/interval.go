package domain

import (
	"cmp"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

// IntervalsOverlap reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Both the reservation conflict check and the schedule
// exception guard go through this single primitive.
func IntervalsOverlap[T cmp.Ordered](aStart, aEnd, bStart, bEnd T) bool {
	return aStart < bEnd && bStart < aEnd
}

// ClockMinutes is a time of day expressed as minutes since midnight.
type ClockMinutes int

const minutesPerDay = 24 * 60

// ParseClock parses an "HH:mm" value such as "19:00".
func ParseClock(value string) (ClockMinutes, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidInput, "invalid clock value %q", value)
	}
	return ClockMinutes(parsed.Hour()*60 + parsed.Minute()), nil
}

func (c ClockMinutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Window is the half-open conflict window [Start, End) within a single day.
type Window struct {
	Start ClockMinutes
	End   ClockMinutes
}

func NewWindow(start ClockMinutes, durationMinutes int) Window {
	return Window{Start: start, End: start + ClockMinutes(durationMinutes)}
}

func (w Window) Overlaps(other Window) bool {
	return IntervalsOverlap(w.Start, w.End, other.Start, other.End)
}

func (w Window) Valid() bool {
	return w.Start >= 0 && w.End > w.Start && w.End <= minutesPerDay
}
