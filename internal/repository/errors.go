package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
)

// IsDuplicate - signals that the error is a duplicate key violation.
func IsDuplicate(err error) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == "23505"
}

// IsNotFound - signals that the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// mapSchemaErr rewrites undefined table/column errors into the fatal
// SchemaMismatch sentinel. Everything else passes through.
func mapSchemaErr(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && (pgerr.Code == "42P01" || pgerr.Code == "42703") {
		return apperr.SchemaMismatch
	}
	return err
}
