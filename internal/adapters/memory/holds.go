package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
)

// HoldStore keeps table holds in a mutex-guarded map. Suitable for
// single-process deployments and tests; multi-process deployments use the
// redis store instead.
type HoldStore struct {
	mu    sync.Mutex
	holds map[uuid.UUID]domain.TableHold
	now   func() time.Time
}

func NewHoldStore() *HoldStore {
	return &HoldStore{holds: make(map[uuid.UUID]domain.TableHold), now: time.Now}
}

// Acquire is the atomic check-and-set: a lapsed hold counts as absent
// regardless of its holder.
func (s *HoldStore) Acquire(_ context.Context, hold domain.TableHold, _ time.Duration) (bool, *domain.TableHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.holds[hold.TableID]; ok && !current.Expired(s.now()) {
		return false, &current, nil
	}
	s.holds[hold.TableID] = hold
	return true, nil, nil
}

func (s *HoldStore) Release(_ context.Context, tableID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.holds[tableID]; ok && current.HolderUserID == userID {
		delete(s.holds, tableID)
	}
	return nil
}

// Sweep removes lapsed holds and returns them for expiry notification.
func (s *HoldStore) Sweep(_ context.Context, now time.Time) ([]domain.TableHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lapsed []domain.TableHold
	for tableID, hold := range s.holds {
		if hold.Expired(now) {
			lapsed = append(lapsed, hold)
			delete(s.holds, tableID)
		}
	}
	return lapsed, nil
}
