package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DayOfWeek is the uppercase english weekday token used across the platform's
// REST responses.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var allowedDays = map[string]DayOfWeek{
	string(Monday):    Monday,
	string(Tuesday):   Tuesday,
	string(Wednesday): Wednesday,
	string(Thursday):  Thursday,
	string(Friday):    Friday,
	string(Saturday):  Saturday,
	string(Sunday):    Sunday,
}

// NormalizeDay returns the canonical token for the given value, or "" when the
// value is not a weekday.
func NormalizeDay(value string) DayOfWeek {
	return allowedDays[strings.ToUpper(strings.TrimSpace(value))]
}

var weekdayTokens = [...]DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DayOf maps a calendar date to its weekday token.
func DayOf(date time.Time) DayOfWeek {
	return weekdayTokens[int(date.Weekday())]
}

// CalendarSnapshot is the read-only operating projection of a restaurant.
type CalendarSnapshot struct {
	RestaurantID uuid.UUID
	Open         ClockMinutes
	Close        ClockMinutes
	DaysOpen     []DayOfWeek
	Active       bool
}

func (c CalendarSnapshot) IsOpenOn(day DayOfWeek) bool {
	for _, d := range c.DaysOpen {
		if d == day {
			return true
		}
	}
	return false
}

// ContainsWindow reports whether the window fits fully inside [Open, Close).
func (c CalendarSnapshot) ContainsWindow(w Window) bool {
	return w.Start >= c.Open && w.End <= c.Close
}

// ScheduleException is a blackout date range during which a restaurant does not
// accept reservations despite its weekly hours. StartDate and EndDate are
// inclusive calendar dates.
type ScheduleException struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
}

// Inclusive end dates are normalized to a half-open range so the shared overlap
// primitive serves both the coverage and the guard checks.
func (e ScheduleException) rangeBounds() (int64, int64) {
	return e.StartDate.Unix(), e.EndDate.AddDate(0, 0, 1).Unix()
}

// Covers reports whether the blackout includes the given date.
func (e ScheduleException) Covers(date time.Time) bool {
	start, end := e.rangeBounds()
	return IntervalsOverlap(start, end, date.Unix(), date.AddDate(0, 0, 1).Unix())
}

// Overlaps reports whether two blackout ranges share at least one date.
func (e ScheduleException) Overlaps(other ScheduleException) bool {
	aStart, aEnd := e.rangeBounds()
	bStart, bEnd := other.rangeBounds()
	return IntervalsOverlap(aStart, aEnd, bStart, bEnd)
}
