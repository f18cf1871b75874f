package domain

import (
	"time"

	"github.com/google/uuid"
)

// TableHold is a short-lived exclusive claim on a table during interactive
// selection. Holds are ephemeral and never part of the durability guarantee:
// the storage constraint on reservations still rejects real double-bookings.
type TableHold struct {
	TableID      uuid.UUID
	RestaurantID uuid.UUID
	SectionID    uuid.UUID
	HolderUserID uuid.UUID
	SessionID    string
	ExpiresAt    time.Time
}

func NewTableHold(tableID, restaurantID, sectionID, userID uuid.UUID, sessionID string, ttl time.Duration, now time.Time) TableHold {
	return TableHold{
		TableID:      tableID,
		RestaurantID: restaurantID,
		SectionID:    sectionID,
		HolderUserID: userID,
		SessionID:    sessionID,
		ExpiresAt:    now.Add(ttl),
	}
}

func (h TableHold) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}

// TableSelectionResult is returned to the UI after a select attempt. A table
// already held by someone else is an expected outcome, not an error.
type TableSelectionResult struct {
	Success    bool
	TableID    uuid.UUID
	SelectedBy uuid.UUID
	ExpiresAt  time.Time
	Message    string
}

// TableSnapshot resolves a table to its owning section/restaurant and capacity.
type TableSnapshot struct {
	TableID      uuid.UUID
	SectionID    uuid.UUID
	RestaurantID uuid.UUID
	Capacity     int
}
