package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
)

const (
	serializationFailureCode = "40001"
	uniqueViolationCode      = "23505"
	exclusionViolationCode   = "23P01"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// The stores below are views over the same pool, one per scheduling port.
func (r *Repository) Reservations() *ReservationStore { return &ReservationStore{r} }
func (r *Repository) Exceptions() *ExceptionStore     { return &ExceptionStore{r} }
func (r *Repository) Calendars() *CalendarStore       { return &CalendarStore{r} }
func (r *Repository) Tables() *TableStore             { return &TableStore{r} }
func (r *Repository) Ownership() *OwnershipStore      { return &OwnershipStore{r} }

type ReservationStore struct{ *Repository }
type ExceptionStore struct{ *Repository }
type CalendarStore struct{ *Repository }
type TableStore struct{ *Repository }
type OwnershipStore struct{ *Repository }

func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	start := time.Now()
	defer func() {
		observability.DBTxDuration.Observe(time.Since(start).Seconds())
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "SET TRANSACTION ISOLATION LEVEL SERIALIZABLE")
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		return mapPgError(err)
	}

	return mapPgError(tx.Commit(ctx))
}

// mapPgError folds storage-level violations into the domain taxonomy so
// callers see the same error kinds regardless of which layer detected the
// problem.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case serializationFailureCode:
		return domain.ErrSerializationFailure
	case exclusionViolationCode, uniqueViolationCode:
		switch pgErr.TableName {
		case "schedule_exceptions":
			return domain.ErrScheduleExceptionOverlap
		default:
			return domain.NewTableConflictError(uuid.Nil)
		}
	}
	return err
}
