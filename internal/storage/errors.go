package storage

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsConflict reports whether an insert lost to a concurrent writer. The
// appointments table carries a partial unique index on
// (service_id, date, start_time) over non-canceled rows, so two racing
// bookings for the same slot cannot both commit; the loser sees a unique or
// exclusion violation.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" || pgErr.Code == "23P01"
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
