package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
)

// CalendarProvider exposes a restaurant's operating snapshot. A nil result
// means the restaurant does not exist or has incomplete schedule data, which
// the service treats as "not bookable".
type CalendarProvider interface {
	LoadByID(ctx context.Context, restaurantID uuid.UUID) (*domain.CalendarSnapshot, error)
}

// TableDirectory resolves a table to its owning section/restaurant and
// capacity. A nil result means "table not found", never "table available".
type TableDirectory interface {
	LoadByID(ctx context.Context, tableID uuid.UUID) (*domain.TableSnapshot, error)
}

// ReservationStore is the persistence boundary for reservations. Save must
// enforce conflict-freedom as a hard storage constraint and surface violations
// as domain.ErrTableConflict, independent of the application-level check.
type ReservationStore interface {
	Save(ctx context.Context, snapshot domain.ReservationSnapshot) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ReservationSnapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// FindActiveByTableAndDate returns PENDING and CONFIRMED reservations for
	// the table on the date, excluding excludeID when it is not uuid.Nil.
	FindActiveByTableAndDate(ctx context.Context, tableID uuid.UUID, date time.Time, excludeID uuid.UUID) ([]domain.ReservationSnapshot, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]domain.ReservationSnapshot, error)
}

// ExceptionStore persists restaurant blackout ranges.
type ExceptionStore interface {
	Insert(ctx context.Context, exception domain.ScheduleException) error
	Update(ctx context.Context, exception domain.ScheduleException) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleException, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]domain.ScheduleException, error)
}

// HoldStore backs the table hold coordinator. Acquire is a single atomic
// check-and-set: it succeeds only when no unexpired hold exists for the table,
// and otherwise reports the current hold. Release clears the hold only when
// owned by userID; releasing an absent or lapsed hold is a no-op.
type HoldStore interface {
	Acquire(ctx context.Context, hold domain.TableHold, ttl time.Duration) (bool, *domain.TableHold, error)
	Release(ctx context.Context, tableID, userID uuid.UUID) error
}

// HoldSweeper is implemented by hold stores that need an explicit sweep of
// lapsed holds (the redis backend expires keys natively).
type HoldSweeper interface {
	Sweep(ctx context.Context, now time.Time) ([]domain.TableHold, error)
}

// EventPublisher emits fire-and-forget notifications. Failures are logged by
// the caller and never fail the primary operation.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// AuditSink records lifecycle actions for the audit trail.
type AuditSink interface {
	Record(ctx context.Context, action string, userID uuid.UUID, data map[string]any) error
}

// OwnershipAsserter gates owner-scoped mutations.
type OwnershipAsserter interface {
	AssertReservationOwnership(ctx context.Context, reservationID, ownerID uuid.UUID) error
	AssertRestaurantOwnership(ctx context.Context, restaurantID, ownerID uuid.UUID) error
}

// UserExistence answers whether a user id refers to a real user.
type UserExistence interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// TrustedUserDirectory trusts an upstream-verified identity: any non-nil user
// id is taken to exist. Swap it for a real directory without touching the
// service.
type TrustedUserDirectory struct{}

func (TrustedUserDirectory) Exists(_ context.Context, userID uuid.UUID) (bool, error) {
	return userID != uuid.Nil, nil
}
