package domain

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Reservation is the aggregate root for a table booking. All mutation goes
// through its methods so the lifecycle and guest-count invariants hold.
type Reservation struct {
	id           uuid.UUID
	restaurantID uuid.UUID
	userID       uuid.UUID
	tableID      uuid.UUID
	date         time.Time
	start        ClockMinutes
	durationMin  int
	guests       int
	status       ReservationStatus
	createdAt    time.Time
	updatedAt    time.Time
}

// ReservationSnapshot is the read-only projection used for persistence and DTO
// mapping.
type ReservationSnapshot struct {
	ID              uuid.UUID
	RestaurantID    uuid.UUID
	UserID          uuid.UUID
	TableID         uuid.UUID
	Date            time.Time
	Start           ClockMinutes
	DurationMinutes int
	Guests          int
	Status          ReservationStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s ReservationSnapshot) Window() Window {
	return NewWindow(s.Start, s.DurationMinutes)
}

// ReservationProps are the creation-time attributes of a reservation.
type ReservationProps struct {
	RestaurantID    uuid.UUID
	UserID          uuid.UUID
	TableID         uuid.UUID
	Date            time.Time
	Start           ClockMinutes
	DurationMinutes int
	Guests          int
}

// NewReservation constructs a PENDING reservation, validating creation-time
// invariants.
func NewReservation(id uuid.UUID, props ReservationProps, now time.Time) (*Reservation, error) {
	switch {
	case id == uuid.Nil:
		return nil, errors.Wrap(ErrInvalidInput, "reservation id is required")
	case props.RestaurantID == uuid.Nil:
		return nil, errors.Wrap(ErrInvalidInput, "restaurant id is required")
	case props.UserID == uuid.Nil:
		return nil, errors.Wrap(ErrInvalidInput, "user id is required")
	case props.TableID == uuid.Nil:
		return nil, errors.Wrap(ErrInvalidInput, "table id is required")
	case props.Date.IsZero():
		return nil, errors.Wrap(ErrInvalidInput, "reservation date is required")
	case props.Guests < 1:
		return nil, errors.Wrap(ErrInvalidInput, "number of guests must be at least 1")
	case props.DurationMinutes < 1:
		return nil, errors.Wrap(ErrInvalidInput, "duration must be positive")
	}
	if !NewWindow(props.Start, props.DurationMinutes).Valid() {
		return nil, errors.Wrap(ErrInvalidInput, "reservation window does not fit inside a single day")
	}

	return &Reservation{
		id:           id,
		restaurantID: props.RestaurantID,
		userID:       props.UserID,
		tableID:      props.TableID,
		date:         props.Date,
		start:        props.Start,
		durationMin:  props.DurationMinutes,
		guests:       props.Guests,
		status:       StatusPending,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Rehydrate reconstructs a reservation from persisted state. The snapshot is
// trusted; creation-time invariants are not re-run.
func Rehydrate(s ReservationSnapshot) *Reservation {
	return &Reservation{
		id:           s.ID,
		restaurantID: s.RestaurantID,
		userID:       s.UserID,
		tableID:      s.TableID,
		date:         s.Date,
		start:        s.Start,
		durationMin:  s.DurationMinutes,
		guests:       s.Guests,
		status:       s.Status,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// ReservationChange is a partial update to a reservation's schedulable fields.
// Status never changes through this path.
type ReservationChange struct {
	Date            *time.Time
	Start           *ClockMinutes
	DurationMinutes *int
	Guests          *int
}

// ApplyChange mutates date/time/guest count.
func (r *Reservation) ApplyChange(change ReservationChange, now time.Time) error {
	if change.Guests != nil && *change.Guests < 1 {
		return errors.Wrap(ErrInvalidInput, "number of guests must be at least 1")
	}
	if change.DurationMinutes != nil && *change.DurationMinutes < 1 {
		return errors.Wrap(ErrInvalidInput, "duration must be positive")
	}

	start := r.start
	duration := r.durationMin
	if change.Start != nil {
		start = *change.Start
	}
	if change.DurationMinutes != nil {
		duration = *change.DurationMinutes
	}
	if !NewWindow(start, duration).Valid() {
		return errors.Wrap(ErrInvalidInput, "reservation window does not fit inside a single day")
	}

	if change.Date != nil {
		r.date = *change.Date
	}
	r.start = start
	r.durationMin = duration
	if change.Guests != nil {
		r.guests = *change.Guests
	}
	r.updatedAt = now
	return nil
}

// ChangeStatus moves the reservation along the lifecycle graph.
func (r *Reservation) ChangeStatus(next ReservationStatus, now time.Time) error {
	if NormalizeStatus(string(next)) == "" {
		return errors.Wrapf(ErrInvalidInput, "unknown status %q", next)
	}
	if !CanTransition(r.status, next) {
		return errors.Wrapf(ErrInvalidStateTransition, "%s -> %s", r.status, next)
	}
	r.status = next
	r.updatedAt = now
	return nil
}

func (r *Reservation) ID() uuid.UUID             { return r.id }
func (r *Reservation) UserID() uuid.UUID         { return r.userID }
func (r *Reservation) Status() ReservationStatus { return r.status }

func (r *Reservation) Window() Window {
	return NewWindow(r.start, r.durationMin)
}

func (r *Reservation) Snapshot() ReservationSnapshot {
	return ReservationSnapshot{
		ID:              r.id,
		RestaurantID:    r.restaurantID,
		UserID:          r.userID,
		TableID:         r.tableID,
		Date:            r.date,
		Start:           r.start,
		DurationMinutes: r.durationMin,
		Guests:          r.guests,
		Status:          r.status,
		CreatedAt:       r.createdAt,
		UpdatedAt:       r.updatedAt,
	}
}
