package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConflict is returned when committing a session fails because of a
// conflicting concurrent request (serialization failure or deadlock). The
// session's pending work has been rolled back when this is returned.
var ErrConflict = errors.New("conflicting request")

// PostgreSQL error codes treated as commit conflicts.
const (
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
)

func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == serializationFailureCode || pgErr.Code == deadlockDetectedCode
	}
	return false
}
