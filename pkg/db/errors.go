package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique violation,
// optionally restricted to a named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return constraint == "" || pgErr.ConstraintName == constraint
	}
	// sqlite (tests) reports unique violations as plain errors.
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
