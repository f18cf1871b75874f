package scheduling

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Service orchestrates reservation scheduling: calendar legality, conflict
// detection, lifecycle transitions and ownership gates. Validation always
// precedes the conflict query, which always precedes the write.
type Service struct {
	tables       TableDirectory
	calendars    CalendarProvider
	reservations ReservationStore
	exceptions   ExceptionStore
	users        UserExistence
	owners       OwnershipAsserter
	publisher    EventPublisher
	audit        AuditSink
	logger       observability.Logger

	defaultDurationMin int
}

func NewService(
	tables TableDirectory,
	calendars CalendarProvider,
	reservations ReservationStore,
	exceptions ExceptionStore,
	users UserExistence,
	owners OwnershipAsserter,
	publisher EventPublisher,
	audit AuditSink,
	logger observability.Logger,
	defaultDurationMin int,
) *Service {
	return &Service{
		tables:             tables,
		calendars:          calendars,
		reservations:       reservations,
		exceptions:         exceptions,
		users:              users,
		owners:             owners,
		publisher:          publisher,
		audit:              audit,
		logger:             logger,
		defaultDurationMin: defaultDurationMin,
	}
}

type ScheduleRequest struct {
	RestaurantID    uuid.UUID
	UserID          uuid.UUID
	TableID         uuid.UUID
	Date            time.Time
	Start           domain.ClockMinutes
	DurationMinutes int // 0 falls back to the service default
	Guests          int
}

// Schedule turns a request into a conflict-free PENDING reservation.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (domain.ReservationSnapshot, error) {
	var none domain.ReservationSnapshot

	ok, err := s.users.Exists(ctx, req.UserID)
	if err != nil {
		return none, err
	}
	if !ok {
		return none, errors.Wrap(domain.ErrForbidden, "unknown user")
	}

	table, err := s.tables.LoadByID(ctx, req.TableID)
	if err != nil {
		return none, err
	}
	if table == nil {
		return none, domain.ErrTableNotFound
	}
	if table.RestaurantID != req.RestaurantID {
		return none, domain.ErrTableRestaurantMismatch
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = s.defaultDurationMin
	}
	if duration < 1 {
		return none, errors.Wrap(domain.ErrInvalidInput, "duration must be positive")
	}
	window := domain.NewWindow(req.Start, duration)

	if err := s.validateWindow(ctx, req.RestaurantID, req.Date, window); err != nil {
		return none, err
	}
	if err := s.rejectConflicts(ctx, req.TableID, req.Date, window, uuid.Nil); err != nil {
		return none, err
	}

	reservation, err := domain.NewReservation(uuid.New(), domain.ReservationProps{
		RestaurantID:    req.RestaurantID,
		UserID:          req.UserID,
		TableID:         req.TableID,
		Date:            req.Date,
		Start:           req.Start,
		DurationMinutes: duration,
		Guests:          req.Guests,
	}, time.Now())
	if err != nil {
		return none, err
	}

	snapshot := reservation.Snapshot()
	if err := s.reservations.Save(ctx, snapshot); err != nil {
		if errors.Is(err, domain.ErrTableConflict) {
			observability.TableConflicts.WithLabelValues("storage").Inc()
		}
		return none, err
	}
	observability.ReservationsScheduled.Inc()

	s.notify(ctx, domain.EventReservationCreated, snapshot, map[string]any{
		"tableId": snapshot.TableID,
		"guests":  snapshot.Guests,
	})
	return snapshot, nil
}

type UpdateRequest struct {
	ReservationID uuid.UUID
	UserID        uuid.UUID
	// OwnerID, when set, identifies a restaurant owner/admin acting on a
	// reservation they do not personally own.
	OwnerID         uuid.UUID
	Date            *time.Time
	Start           *domain.ClockMinutes
	DurationMinutes *int
	Guests          *int
}

// Update reschedules an existing reservation, re-running calendar and conflict
// validation against the proposed window. The reservation never conflicts with
// itself.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (domain.ReservationSnapshot, error) {
	var none domain.ReservationSnapshot

	existing, err := s.reservations.FindByID(ctx, req.ReservationID)
	if err != nil {
		return none, err
	}
	if existing == nil {
		return none, domain.ErrReservationNotFound
	}
	if err := s.authorizeMutation(ctx, *existing, req.UserID, req.OwnerID); err != nil {
		return none, err
	}

	date := existing.Date
	if req.Date != nil {
		date = *req.Date
	}
	start := existing.Start
	if req.Start != nil {
		start = *req.Start
	}
	duration := existing.DurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	if duration < 1 {
		return none, errors.Wrap(domain.ErrInvalidInput, "duration must be positive")
	}
	window := domain.NewWindow(start, duration)

	if err := s.validateWindow(ctx, existing.RestaurantID, date, window); err != nil {
		return none, err
	}
	if err := s.rejectConflicts(ctx, existing.TableID, date, window, existing.ID); err != nil {
		return none, err
	}

	reservation := domain.Rehydrate(*existing)
	change := domain.ReservationChange{
		Date:            req.Date,
		Start:           req.Start,
		DurationMinutes: req.DurationMinutes,
		Guests:          req.Guests,
	}
	if err := reservation.ApplyChange(change, time.Now()); err != nil {
		return none, err
	}

	snapshot := reservation.Snapshot()
	if err := s.reservations.Save(ctx, snapshot); err != nil {
		if errors.Is(err, domain.ErrTableConflict) {
			observability.TableConflicts.WithLabelValues("storage").Inc()
		}
		return none, err
	}

	s.notify(ctx, domain.EventReservationUpdated, snapshot, nil)
	return snapshot, nil
}

type CancelRequest struct {
	ReservationID uuid.UUID
	UserID        uuid.UUID
	OwnerID       uuid.UUID
}

// Cancel transitions the reservation to CANCELLED. Cancelling an already
// cancelled reservation is a no-op success.
func (s *Service) Cancel(ctx context.Context, req CancelRequest) (domain.ReservationSnapshot, error) {
	var none domain.ReservationSnapshot

	existing, err := s.reservations.FindByID(ctx, req.ReservationID)
	if err != nil {
		return none, err
	}
	if existing == nil {
		return none, domain.ErrReservationNotFound
	}
	if err := s.authorizeMutation(ctx, *existing, req.UserID, req.OwnerID); err != nil {
		return none, err
	}
	if existing.Status == domain.StatusCancelled {
		return *existing, nil
	}

	reservation := domain.Rehydrate(*existing)
	if err := reservation.ChangeStatus(domain.StatusCancelled, time.Now()); err != nil {
		return none, err
	}

	snapshot := reservation.Snapshot()
	if err := s.reservations.Save(ctx, snapshot); err != nil {
		return none, err
	}

	s.notify(ctx, domain.EventReservationCancelled, snapshot, nil)
	return snapshot, nil
}

type ConfirmRequest struct {
	ReservationID uuid.UUID
	OwnerID       uuid.UUID
}

// Confirm is the owner-initiated PENDING -> CONFIRMED transition.
func (s *Service) Confirm(ctx context.Context, req ConfirmRequest) (domain.ReservationSnapshot, error) {
	var none domain.ReservationSnapshot

	existing, err := s.reservations.FindByID(ctx, req.ReservationID)
	if err != nil {
		return none, err
	}
	if existing == nil {
		return none, domain.ErrReservationNotFound
	}
	if err := s.owners.AssertReservationOwnership(ctx, existing.ID, req.OwnerID); err != nil {
		return none, err
	}

	reservation := domain.Rehydrate(*existing)
	if err := reservation.ChangeStatus(domain.StatusConfirmed, time.Now()); err != nil {
		return none, err
	}

	snapshot := reservation.Snapshot()
	if err := s.reservations.Save(ctx, snapshot); err != nil {
		return none, err
	}

	s.notify(ctx, domain.EventReservationConfirmed, snapshot, nil)
	return snapshot, nil
}

type DeleteRequest struct {
	ReservationID uuid.UUID
	OwnerID       uuid.UUID
}

// Delete hard-deletes a reservation. Distinct from cancellation so the audit
// trail survives normal flows.
func (s *Service) Delete(ctx context.Context, req DeleteRequest) error {
	existing, err := s.reservations.FindByID(ctx, req.ReservationID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrReservationNotFound
	}
	if err := s.owners.AssertReservationOwnership(ctx, existing.ID, req.OwnerID); err != nil {
		return err
	}
	if err := s.reservations.Delete(ctx, existing.ID); err != nil {
		return err
	}

	s.notify(ctx, domain.EventReservationDeleted, *existing, nil)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.ReservationSnapshot, error) {
	existing, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return domain.ReservationSnapshot{}, err
	}
	if existing == nil {
		return domain.ReservationSnapshot{}, domain.ErrReservationNotFound
	}
	return *existing, nil
}

func (s *Service) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]domain.ReservationSnapshot, error) {
	return s.reservations.ListByRestaurant(ctx, restaurantID)
}

// validateWindow checks calendar legality: active restaurant, open weekday,
// window inside operating hours, no blackout covering the date.
func (s *Service) validateWindow(ctx context.Context, restaurantID uuid.UUID, date time.Time, window domain.Window) error {
	calendar, err := s.calendars.LoadByID(ctx, restaurantID)
	if err != nil {
		return err
	}
	if calendar == nil || !calendar.Active {
		return domain.ErrRestaurantNotBookable
	}
	if !window.Valid() || !calendar.IsOpenOn(domain.DayOf(date)) || !calendar.ContainsWindow(window) {
		return domain.ErrOutsideOperatingHours
	}

	blackouts, err := s.exceptions.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return err
	}
	for _, ex := range blackouts {
		if ex.Covers(date) {
			return domain.ErrRestaurantClosedByException
		}
	}
	return nil
}

// rejectConflicts runs the application-level overlap check. The storage
// constraint remains the ultimate guarantee against the TOCTOU gap.
func (s *Service) rejectConflicts(ctx context.Context, tableID uuid.UUID, date time.Time, window domain.Window, excludeID uuid.UUID) error {
	active, err := s.reservations.FindActiveByTableAndDate(ctx, tableID, date, excludeID)
	if err != nil {
		return err
	}
	for _, other := range active {
		if window.Overlaps(other.Window()) {
			observability.TableConflicts.WithLabelValues("service").Inc()
			return domain.NewTableConflictError(other.ID)
		}
	}
	return nil
}

func (s *Service) authorizeMutation(ctx context.Context, snapshot domain.ReservationSnapshot, userID, ownerID uuid.UUID) error {
	if userID != uuid.Nil && userID == snapshot.UserID {
		return nil
	}
	if ownerID != uuid.Nil {
		return s.owners.AssertReservationOwnership(ctx, snapshot.ID, ownerID)
	}
	return domain.ErrReservationOwnership
}

// notify publishes the event and records the audit entry concurrently.
// Failures are logged and swallowed.
func (s *Service) notify(ctx context.Context, eventType string, snapshot domain.ReservationSnapshot, data map[string]any) {
	event := domain.Event{
		Type:          eventType,
		ReservationID: snapshot.ID,
		RestaurantID:  snapshot.RestaurantID,
		UserID:        snapshot.UserID,
		OccurredAt:    time.Now(),
		Data:          data,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.publisher.Publish(gctx, event)
	})
	g.Go(func() error {
		return s.audit.Record(gctx, eventType, snapshot.UserID, map[string]any{
			"reservationId": snapshot.ID,
			"restaurantId":  snapshot.RestaurantID,
			"status":        snapshot.Status,
		})
	})
	if err := g.Wait(); err != nil {
		observability.EventPublishFailures.Inc()
		s.logger.WithError(err).WithField("event", eventType).Warn("failed to emit reservation event")
	}
}
