package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
)

// HoldCoordinator manages short-lived exclusive holds on tables during the
// interactive selection phase. Holds are an optimistic UX layer: the storage
// constraint on reservations stays the correctness guarantee.
type HoldCoordinator struct {
	store  HoldStore
	ttl    time.Duration
	logger observability.Logger
	now    func() time.Time
}

func NewHoldCoordinator(store HoldStore, ttl time.Duration, logger observability.Logger) *HoldCoordinator {
	return &HoldCoordinator{store: store, ttl: ttl, logger: logger, now: time.Now}
}

type SelectTableRequest struct {
	TableID      uuid.UUID
	RestaurantID uuid.UUID
	SectionID    uuid.UUID
	UserID       uuid.UUID
	SessionID    string
}

type ReleaseTableRequest struct {
	TableID      uuid.UUID
	RestaurantID uuid.UUID
	SectionID    uuid.UUID
	UserID       uuid.UUID
}

// Select atomically claims the table unless an unexpired hold by another user
// exists. A held table is an expected outcome, reported without an error.
func (c *HoldCoordinator) Select(ctx context.Context, req SelectTableRequest) (domain.TableSelectionResult, error) {
	hold := domain.NewTableHold(req.TableID, req.RestaurantID, req.SectionID, req.UserID, req.SessionID, c.ttl, c.now())

	acquired, current, err := c.store.Acquire(ctx, hold, c.ttl)
	if err != nil {
		return domain.TableSelectionResult{}, err
	}
	if acquired {
		observability.HoldAttempts.WithLabelValues("acquired").Inc()
		return domain.TableSelectionResult{
			Success:    true,
			TableID:    hold.TableID,
			SelectedBy: hold.HolderUserID,
			ExpiresAt:  hold.ExpiresAt,
		}, nil
	}
	if current != nil && current.HolderUserID == req.UserID {
		// Same user reselecting, e.g. another tab. The TTL is fixed and never
		// implicitly extended.
		return domain.TableSelectionResult{
			Success:    true,
			TableID:    current.TableID,
			SelectedBy: current.HolderUserID,
			ExpiresAt:  current.ExpiresAt,
		}, nil
	}

	observability.HoldAttempts.WithLabelValues("rejected").Inc()
	return domain.TableSelectionResult{
		Success: false,
		TableID: req.TableID,
		Message: "table currently held",
	}, nil
}

// Release clears the hold when owned by the requesting user. Releasing an
// absent or lapsed hold succeeds silently.
func (c *HoldCoordinator) Release(ctx context.Context, req ReleaseTableRequest) error {
	return c.store.Release(ctx, req.TableID, req.UserID)
}
