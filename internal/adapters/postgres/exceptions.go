package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
)

// The schedule_exceptions table carries its own exclusion constraint over
// (restaurant_id, daterange); violations surface as
// domain.ErrScheduleExceptionOverlap through mapPgError.

func (r *ExceptionStore) Insert(ctx context.Context, ex domain.ScheduleException) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO schedule_exceptions (id, restaurant_id, start_date, end_date, reason)
			VALUES ($1, $2, $3, $4, $5)
		`, ex.ID, ex.RestaurantID, ex.StartDate, ex.EndDate, ex.Reason)
		return err
	})
}

func (r *ExceptionStore) Update(ctx context.Context, ex domain.ScheduleException) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE schedule_exceptions SET start_date = $2, end_date = $3, reason = $4 WHERE id = $1
		`, ex.ID, ex.StartDate, ex.EndDate, ex.Reason)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *ExceptionStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM schedule_exceptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ExceptionStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleException, error) {
	var ex domain.ScheduleException
	err := r.pool.QueryRow(ctx, `
		SELECT id, restaurant_id, start_date, end_date, COALESCE(reason, '')
		FROM schedule_exceptions WHERE id = $1
	`, id).Scan(&ex.ID, &ex.RestaurantID, &ex.StartDate, &ex.EndDate, &ex.Reason)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

func (r *ExceptionStore) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]domain.ScheduleException, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, restaurant_id, start_date, end_date, COALESCE(reason, '')
		FROM schedule_exceptions WHERE restaurant_id = $1
		ORDER BY start_date
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScheduleException
	for rows.Next() {
		var ex domain.ScheduleException
		if err := rows.Scan(&ex.ID, &ex.RestaurantID, &ex.StartDate, &ex.EndDate, &ex.Reason); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}
