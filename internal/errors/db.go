package errors

import (
	"context"
	"errors"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column list from "Key (device_id, recorded_at)=(...) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError maps database errors to AppError instances:
//   - context deadline / cancel → Timeout / Canceled
//   - pgx.ErrNoRows → NotFound
//   - unique violations → Conflict
//   - check and NOT NULL violations → Validation
//   - connection failures → Unavailable
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "database call timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "database call canceled", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "record not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return &AppError{Code: ErrCodeUnavailable, Message: "database unavailable", Cause: err}
	}

	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		field := pgErr.ColumnName
		if field == "" && pgErr.Detail != "" {
			if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
				field = m[1]
			}
		}
		return &AppError{Code: ErrCodeConflict, Message: "record already exists", Field: field, Cause: pgErr}
	case pgerrcode.CheckViolation:
		return &AppError{Code: ErrCodeValidation, Message: "value rejected by check constraint " + pgErr.ConstraintName, Field: pgErr.ColumnName, Cause: pgErr}
	case pgerrcode.NotNullViolation:
		return &AppError{Code: ErrCodeValidation, Message: "required column is missing", Field: pgErr.ColumnName, Cause: pgErr}
	case pgerrcode.UndefinedTable:
		// Usually means migrations were skipped.
		return &AppError{Code: ErrCodeUnavailable, Message: "schema is not migrated", Cause: pgErr}
	default:
		if pgerrcode.IsConnectionException(pgErr.Code) {
			return &AppError{Code: ErrCodeUnavailable, Message: "database unavailable", Cause: pgErr}
		}
		return &AppError{Code: ErrCodeInternal, Message: "database error", Cause: pgErr}
	}
}
