package repository

import (
	"errors"

	"catalog-service/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code for a unique-constraint
// violation.
const uniqueViolation = "23505"

// constraintFields maps unique-constraint names from the schema to the
// field the constraint guards.
var constraintFields = map[string]string{
	"categories_name_key": "name",
	"categories_slug_key": "slug",
	"products_name_key":   "name",
}

// conflictError maps a unique-constraint violation to a
// *model.ConflictError naming the offending field. Returns nil when the
// error is not a unique violation.
func conflictError(err error) *model.ConflictError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}

	field, ok := constraintFields[pgErr.ConstraintName]
	if !ok {
		field = pgErr.ConstraintName
	}
	return model.NewConflictError(field)
}
