package domain

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var (
	ErrSerializationFailure = errors.New("serialization failure")
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")

	ErrTableNotFound               = errors.New("table not found")
	ErrTableRestaurantMismatch     = errors.New("table does not belong to restaurant")
	ErrRestaurantNotBookable       = errors.New("restaurant not bookable")
	ErrOutsideOperatingHours       = errors.New("requested window outside operating hours")
	ErrRestaurantClosedByException = errors.New("restaurant closed by schedule exception")
	ErrTableConflict               = errors.New("table already reserved for that window")
	ErrScheduleExceptionOverlap    = errors.New("schedule exception overlaps an existing one")
	ErrReservationNotFound         = errors.New("reservation not found")
	ErrReservationOwnership        = errors.New("reservation belongs to another user")
	ErrForbidden                   = errors.New("forbidden")
	ErrInvalidStateTransition      = errors.New("invalid reservation state transition")
)

// TableConflictError carries the id of the reservation already occupying the
// requested window. ConflictingReservationID is uuid.Nil when the conflict was
// detected by the storage constraint instead of the application-level query.
type TableConflictError struct {
	ConflictingReservationID uuid.UUID
}

func (e *TableConflictError) Error() string {
	if e.ConflictingReservationID == uuid.Nil {
		return ErrTableConflict.Error()
	}
	return fmt.Sprintf("table already reserved for that window by reservation %s", e.ConflictingReservationID)
}

func (e *TableConflictError) Unwrap() error { return ErrTableConflict }

func NewTableConflictError(conflictingID uuid.UUID) error {
	return &TableConflictError{ConflictingReservationID: conflictingID}
}
