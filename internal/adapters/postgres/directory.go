package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
)

// LoadByID returns the restaurant's operating snapshot, or nil when the
// restaurant is missing or its schedule data is incomplete (no open/close
// time, no open days). The service treats nil as "not bookable".
func (d *CalendarStore) LoadByID(ctx context.Context, restaurantID uuid.UUID) (*domain.CalendarSnapshot, error) {
	var openRaw, closeRaw *string
	var days []string
	var active bool
	err := d.pool.QueryRow(ctx, `
		SELECT open_time, close_time, days_open, active
		FROM restaurants WHERE id = $1
	`, restaurantID).Scan(&openRaw, &closeRaw, &days, &active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if openRaw == nil || closeRaw == nil || len(days) == 0 {
		return nil, nil
	}

	open, err := domain.ParseClock(*openRaw)
	if err != nil {
		return nil, nil
	}
	close, err := domain.ParseClock(*closeRaw)
	if err != nil {
		return nil, nil
	}

	snapshot := &domain.CalendarSnapshot{
		RestaurantID: restaurantID,
		Open:         open,
		Close:        close,
		Active:       active,
	}
	for _, raw := range days {
		if day := domain.NormalizeDay(raw); day != "" {
			snapshot.DaysOpen = append(snapshot.DaysOpen, day)
		}
	}
	if len(snapshot.DaysOpen) == 0 {
		return nil, nil
	}
	return snapshot, nil
}

// LoadByID resolves a table to its owning section/restaurant. A nil
// result means "table not found", never "table available".
func (d *TableStore) LoadByID(ctx context.Context, tableID uuid.UUID) (*domain.TableSnapshot, error) {
	var snapshot domain.TableSnapshot
	err := d.pool.QueryRow(ctx, `
		SELECT t.id, t.section_id, s.restaurant_id, t.capacity
		FROM tables t
		JOIN sections s ON s.id = t.section_id
		WHERE t.id = $1
	`, tableID).Scan(&snapshot.TableID, &snapshot.SectionID, &snapshot.RestaurantID, &snapshot.Capacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (d *OwnershipStore) AssertReservationOwnership(ctx context.Context, reservationID, ownerID uuid.UUID) error {
	var actualOwner uuid.UUID
	err := d.pool.QueryRow(ctx, `
		SELECT r.owner_id
		FROM reservations res
		JOIN restaurants r ON r.id = res.restaurant_id
		WHERE res.id = $1
	`, reservationID).Scan(&actualOwner)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrReservationNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return domain.ErrForbidden
	}
	return nil
}

func (d *OwnershipStore) AssertRestaurantOwnership(ctx context.Context, restaurantID, ownerID uuid.UUID) error {
	var actualOwner uuid.UUID
	err := d.pool.QueryRow(ctx, `
		SELECT owner_id FROM restaurants WHERE id = $1
	`, restaurantID).Scan(&actualOwner)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return domain.ErrForbidden
	}
	return nil
}
