package db

import (
	"errors"

	"github.com/lib/pq"
)

// -- Constants (External Systems) --
const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
	PgCheckViolation      = "23514"
	PgNumericOutOfRange   = "22003"
)

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation reports a duplicate key, optionally on a named constraint.
func IsUniqueViolation(err error, constraint ...string) bool {
	if pgCode(err) != PgUniqueViolation {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	var pqErr *pq.Error
	errors.As(err, &pqErr)
	for _, c := range constraint {
		if pqErr.Constraint == c {
			return true
		}
	}
	return false
}

func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == PgForeignKeyViolation
}

func IsCheckViolation(err error) bool {
	return pgCode(err) == PgCheckViolation
}

// IsNumericOutOfRange reports a value that overflows its column type.
func IsNumericOutOfRange(err error) bool {
	return pgCode(err) == PgNumericOutOfRange
}
