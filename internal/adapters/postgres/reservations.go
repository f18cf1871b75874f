package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
)

// Save upserts the reservation snapshot inside a SERIALIZABLE transaction.
// The exclusion constraint over (table_id, reservation_date, time range) for
// active statuses closes the TOCTOU gap left by the application-level conflict
// check; violations come back as domain.ErrTableConflict, serialization
// failures as domain.ErrSerializationFailure, both via mapPgError.
func (r *ReservationStore) Save(ctx context.Context, s domain.ReservationSnapshot) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO reservations (id, restaurant_id, user_id, table_id, reservation_date, start_min, duration_min, guests, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET
				reservation_date = EXCLUDED.reservation_date,
				start_min        = EXCLUDED.start_min,
				duration_min     = EXCLUDED.duration_min,
				guests           = EXCLUDED.guests,
				status           = EXCLUDED.status,
				updated_at       = EXCLUDED.updated_at
		`, s.ID, s.RestaurantID, s.UserID, s.TableID, s.Date, int(s.Start), s.DurationMinutes, s.Guests, string(s.Status), s.CreatedAt, s.UpdatedAt)
		return err
	})
}

func (r *ReservationStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.ReservationSnapshot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, restaurant_id, user_id, table_id, reservation_date, start_min, duration_min, guests, status, created_at, updated_at
		FROM reservations WHERE id = $1
	`, id)

	s, err := scanReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ReservationStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// FindActiveByTableAndDate returns the PENDING and CONFIRMED reservations for
// the table on the date, excluding excludeID when set. CANCELLED reservations
// never conflict.
func (r *ReservationStore) FindActiveByTableAndDate(ctx context.Context, tableID uuid.UUID, date time.Time, excludeID uuid.UUID) ([]domain.ReservationSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, restaurant_id, user_id, table_id, reservation_date, start_min, duration_min, guests, status, created_at, updated_at
		FROM reservations
		WHERE table_id = $1
		  AND reservation_date = $2
		  AND status IN ('PENDING', 'CONFIRMED')
		  AND ($3::uuid IS NULL OR id <> $3)
		ORDER BY start_min
	`, tableID, date, nullableUUID(excludeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *ReservationStore) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]domain.ReservationSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, restaurant_id, user_id, table_id, reservation_date, start_min, duration_min, guests, status, created_at, updated_at
		FROM reservations WHERE restaurant_id = $1
		ORDER BY reservation_date, start_min
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReservations(rows)
}

func collectReservations(rows pgx.Rows) ([]domain.ReservationSnapshot, error) {
	var out []domain.ReservationSnapshot
	for rows.Next() {
		s, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanReservation(row pgx.Row) (domain.ReservationSnapshot, error) {
	var s domain.ReservationSnapshot
	var startMin int
	var status string
	err := row.Scan(&s.ID, &s.RestaurantID, &s.UserID, &s.TableID, &s.Date, &startMin, &s.DurationMinutes, &s.Guests, &status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	s.Start = domain.ClockMinutes(startMin)
	s.Status = domain.ReservationStatus(status)
	return s, nil
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
