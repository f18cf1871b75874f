package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
)

type fakeTables struct {
	tables map[uuid.UUID]domain.TableSnapshot
}

func (f *fakeTables) LoadByID(_ context.Context, tableID uuid.UUID) (*domain.TableSnapshot, error) {
	if t, ok := f.tables[tableID]; ok {
		return &t, nil
	}
	return nil, nil
}

type fakeCalendars struct {
	calendars map[uuid.UUID]domain.CalendarSnapshot
}

func (f *fakeCalendars) LoadByID(_ context.Context, restaurantID uuid.UUID) (*domain.CalendarSnapshot, error) {
	if c, ok := f.calendars[restaurantID]; ok {
		return &c, nil
	}
	return nil, nil
}

type fakeReservationStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.ReservationSnapshot
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{byID: make(map[uuid.UUID]domain.ReservationSnapshot)}
}

func (f *fakeReservationStore) Save(_ context.Context, s domain.ReservationSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[s.ID] = s
	return nil
}

func (f *fakeReservationStore) FindByID(_ context.Context, id uuid.UUID) (*domain.ReservationSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byID[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeReservationStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeReservationStore) FindActiveByTableAndDate(_ context.Context, tableID uuid.UUID, date time.Time, excludeID uuid.UUID) ([]domain.ReservationSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ReservationSnapshot
	for _, s := range f.byID {
		if s.TableID != tableID || !s.Date.Equal(date) || s.ID == excludeID {
			continue
		}
		if s.Status == domain.StatusCancelled {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeReservationStore) ListByRestaurant(_ context.Context, restaurantID uuid.UUID) ([]domain.ReservationSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ReservationSnapshot
	for _, s := range f.byID {
		if s.RestaurantID == restaurantID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeExceptionStore struct {
	byID map[uuid.UUID]domain.ScheduleException
}

func newFakeExceptionStore() *fakeExceptionStore {
	return &fakeExceptionStore{byID: make(map[uuid.UUID]domain.ScheduleException)}
}

func (f *fakeExceptionStore) Insert(_ context.Context, ex domain.ScheduleException) error {
	f.byID[ex.ID] = ex
	return nil
}

func (f *fakeExceptionStore) Update(_ context.Context, ex domain.ScheduleException) error {
	f.byID[ex.ID] = ex
	return nil
}

func (f *fakeExceptionStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeExceptionStore) FindByID(_ context.Context, id uuid.UUID) (*domain.ScheduleException, error) {
	if ex, ok := f.byID[id]; ok {
		return &ex, nil
	}
	return nil, nil
}

func (f *fakeExceptionStore) ListByRestaurant(_ context.Context, restaurantID uuid.UUID) ([]domain.ScheduleException, error) {
	var out []domain.ScheduleException
	for _, ex := range f.byID {
		if ex.RestaurantID == restaurantID {
			out = append(out, ex)
		}
	}
	return out, nil
}

// fakeOwners authorizes exactly one owner id.
type fakeOwners struct {
	ownerID uuid.UUID
}

func (f *fakeOwners) AssertReservationOwnership(_ context.Context, _, ownerID uuid.UUID) error {
	if ownerID != f.ownerID {
		return domain.ErrForbidden
	}
	return nil
}

func (f *fakeOwners) AssertRestaurantOwnership(_ context.Context, _, ownerID uuid.UUID) error {
	if ownerID != f.ownerID {
		return domain.ErrForbidden
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (f *fakePublisher) Publish(_ context.Context, e domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) typesSeen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

type fakeAudit struct {
	mu      sync.Mutex
	records int
}

func (f *fakeAudit) Record(_ context.Context, _ string, _ uuid.UUID, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records++
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(...interface{})                          {}
func (noopLogger) Error(...interface{})                         {}
func (noopLogger) Debug(...interface{})                         {}
func (noopLogger) Warn(...interface{})                          {}
func (l noopLogger) WithField(string, interface{}) observability.Logger { return l }
func (l noopLogger) WithError(error) observability.Logger               { return l }
