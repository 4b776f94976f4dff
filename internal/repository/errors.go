package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup by identifier matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user insert hits the email unique constraint.
	ErrDuplicateEmail = errors.New("email already in use")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// notFound maps sql.ErrNoRows to ErrNotFound and leaves other errors intact.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// validID reports whether id can be compared against a UUID column. Anything
// else can never match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
