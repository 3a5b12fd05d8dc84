package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the store reacts to
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeUndefinedTable      = "42P01"
)

// PgCode returns the SQLSTATE of a PostgreSQL error, or "" for other errors.
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func IsDuplicateKeyError(err error) bool {
	return PgCode(err) == CodeUniqueViolation
}

// IsForeignKeyError checks if the error is a PostgreSQL foreign key violation.
func IsForeignKeyError(err error) bool {
	return PgCode(err) == CodeForeignKeyViolation
}

// IsConnectionError reports whether err comes from failing to reach the server
// or from a missing schema.
func IsConnectionError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	return PgCode(err) == CodeUndefinedTable
}
