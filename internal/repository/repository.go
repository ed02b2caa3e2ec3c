package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate signals a unique-constraint violation. Callers racing on
// reference numbers treat it as a cue to regenerate and retry once.
var ErrDuplicate = errors.New("duplicate record")

// ErrStatusConflict signals a lost compare-and-set: the record's status
// moved between the caller's read and its write.
var ErrStatusConflict = errors.New("status changed concurrently")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
