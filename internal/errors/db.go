package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtapi/booking-api/internal/util"
)

var (
	// reKeyField extracts the column from "Key (field)=(value) already exists.".
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// reNotPresent extracts the parent table from "... is not present in table ...".
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// tableNouns names booking tables in client-facing messages.
var tableNouns = map[string]string{
	"jobs":            "booking",
	"users":           "user",
	"user_languages":  "translator language",
	"distances":       "distance record",
	"translator_jobs": "translator assignment",
}

// MapDBError maps database errors to AppErrors:
//   - context deadline and cancellation → Timeout and Canceled
//   - pgx.ErrNoRows → NotFound
//   - unique violation → Conflict naming the column
//   - foreign key violation → Validation naming the missing parent
//   - not-null and check violations → Validation naming the column
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	case errors.Is(err, context.Canceled):
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	case errors.Is(err, pgx.ErrNoRows):
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "This value already exists.",
			Field:   uniqueField(pgErr),
			Cause:   pgErr,
		}
	case pgerrcode.ForeignKeyViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "The referenced " + parentNoun(pgErr) + " does not exist.",
			Cause:   pgErr,
		}
	case pgerrcode.NotNullViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field is required.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	case pgerrcode.CheckViolation, pgerrcode.InvalidDatetimeFormat, pgerrcode.NumericValueOutOfRange:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field has an invalid value.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	// users_email_key → email
	parts := strings.Split(pgErr.ConstraintName, "_")
	if len(parts) == 3 {
		return parts[1]
	}
	return ""
}

func parentNoun(pgErr *pgconn.PgError) string {
	table := ""
	if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		table = m[1]
	}
	if table == "" {
		// translator_jobs_user_id_fkey → users
		name := strings.TrimSuffix(pgErr.ConstraintName, "_fkey")
		if strings.HasSuffix(name, "_user_id") {
			table = "users"
		} else if strings.HasSuffix(name, "_job_id") {
			table = "jobs"
		}
	}
	fallback := strings.ReplaceAll(table, "_", " ")
	if table == "" {
		fallback = "record"
	}
	return util.GetValue(tableNouns, strings.ToLower(strings.TrimSpace(table)), fallback)
}
