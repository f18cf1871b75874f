package domain

import "strings"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

var allowedStatuses = map[string]ReservationStatus{
	string(StatusPending):   StatusPending,
	string(StatusConfirmed): StatusConfirmed,
	string(StatusCancelled): StatusCancelled,
}

// NormalizeStatus returns the canonical status for the given value, or "" when
// the value is not part of the lifecycle.
func NormalizeStatus(value string) ReservationStatus {
	return allowedStatuses[strings.ToUpper(strings.TrimSpace(value))]
}

// CANCELLED is terminal; CONFIRMED can only move to CANCELLED.
var allowedTransitions = map[ReservationStatus]map[ReservationStatus]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusCancelled: true,
	},
	StatusCancelled: {},
}

// CanTransition reports whether the lifecycle allows moving from one status to
// the next.
func CanTransition(from, to ReservationStatus) bool {
	return allowedTransitions[from][to]
}
