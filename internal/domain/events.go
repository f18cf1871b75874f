package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types published on the reservations exchange.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationUpdated   = "reservation.updated"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationDeleted   = "reservation.deleted"
	EventHoldExpired          = "hold.expired"
)

// Event is the fire-and-forget notification emitted after a successful
// mutation. Publish failures never roll back the write.
type Event struct {
	Type          string         `json:"type"`
	ReservationID uuid.UUID      `json:"reservationId"`
	RestaurantID  uuid.UUID      `json:"restaurantId"`
	UserID        uuid.UUID      `json:"userId"`
	OccurredAt    time.Time      `json:"occurredAt"`
	Data          map[string]any `json:"data,omitempty"`
}
