package scheduling

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
)

// ExceptionService manages restaurant blackout ranges. Every operation is
// owner-authorized, and the overlap guard shares the conflict primitive with
// reservation scheduling.
type ExceptionService struct {
	store  ExceptionStore
	owners OwnershipAsserter
	logger observability.Logger
}

func NewExceptionService(store ExceptionStore, owners OwnershipAsserter, logger observability.Logger) *ExceptionService {
	return &ExceptionService{store: store, owners: owners, logger: logger}
}

type CreateExceptionRequest struct {
	RestaurantID uuid.UUID
	OwnerID      uuid.UUID
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
}

func (s *ExceptionService) Create(ctx context.Context, req CreateExceptionRequest) (domain.ScheduleException, error) {
	var none domain.ScheduleException

	if err := s.owners.AssertRestaurantOwnership(ctx, req.RestaurantID, req.OwnerID); err != nil {
		return none, err
	}
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return none, err
	}

	exception := domain.ScheduleException{
		ID:           uuid.New(),
		RestaurantID: req.RestaurantID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Reason:       req.Reason,
	}
	if err := s.guardOverlap(ctx, exception, uuid.Nil); err != nil {
		return none, err
	}
	if err := s.store.Insert(ctx, exception); err != nil {
		return none, err
	}
	return exception, nil
}

type UpdateExceptionRequest struct {
	ExceptionID uuid.UUID
	OwnerID     uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	Reason      string
}

func (s *ExceptionService) Update(ctx context.Context, req UpdateExceptionRequest) (domain.ScheduleException, error) {
	var none domain.ScheduleException

	existing, err := s.store.FindByID(ctx, req.ExceptionID)
	if err != nil {
		return none, err
	}
	if existing == nil {
		return none, domain.ErrNotFound
	}
	if err := s.owners.AssertRestaurantOwnership(ctx, existing.RestaurantID, req.OwnerID); err != nil {
		return none, err
	}
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return none, err
	}

	updated := domain.ScheduleException{
		ID:           existing.ID,
		RestaurantID: existing.RestaurantID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Reason:       req.Reason,
	}
	// An update must not conflict with the exception's own stored range.
	if err := s.guardOverlap(ctx, updated, updated.ID); err != nil {
		return none, err
	}
	if err := s.store.Update(ctx, updated); err != nil {
		return none, err
	}
	return updated, nil
}

func (s *ExceptionService) Delete(ctx context.Context, exceptionID, ownerID uuid.UUID) error {
	existing, err := s.store.FindByID(ctx, exceptionID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := s.owners.AssertRestaurantOwnership(ctx, existing.RestaurantID, ownerID); err != nil {
		return err
	}
	return s.store.Delete(ctx, exceptionID)
}

func (s *ExceptionService) List(ctx context.Context, restaurantID, ownerID uuid.UUID) ([]domain.ScheduleException, error) {
	if err := s.owners.AssertRestaurantOwnership(ctx, restaurantID, ownerID); err != nil {
		return nil, err
	}
	return s.store.ListByRestaurant(ctx, restaurantID)
}

func (s *ExceptionService) guardOverlap(ctx context.Context, candidate domain.ScheduleException, excludeID uuid.UUID) error {
	others, err := s.store.ListByRestaurant(ctx, candidate.RestaurantID)
	if err != nil {
		return err
	}
	for _, other := range others {
		if other.ID == excludeID {
			continue
		}
		if candidate.Overlaps(other) {
			observability.TableConflicts.WithLabelValues("exception_guard").Inc()
			return errors.Wrapf(domain.ErrScheduleExceptionOverlap, "overlaps exception %s", other.ID)
		}
	}
	return nil
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errors.Wrap(domain.ErrInvalidInput, "start and end dates are required")
	}
	if end.Before(start) {
		return errors.Wrap(domain.ErrInvalidInput, "end date precedes start date")
	}
	return nil
}
