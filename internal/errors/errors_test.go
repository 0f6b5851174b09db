package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "store job")

	assert.Equal(t, "store job: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsInternal(err))
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "noop"))

	outer := fmt.Errorf("service: %w", Forbidden("admins only"))
	assert.True(t, IsForbidden(outer))
	assert.Equal(t, ErrCodeForbidden, GetCode(outer))
	assert.Equal(t, ErrorCode(""), GetCode(cause))
}

func TestValidationField(t *testing.T) {
	err := ValidationField("user_email", "invalid email address")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "user_email", GetField(err))
	assert.Empty(t, GetField(errors.New("plain")))
}

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		wantField string
		wantMsg   string
	}{
		{name: "deadline", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: fmt.Errorf("query: %w", context.Canceled), wantCode: ErrCodeCanceled},
		{name: "no rows", err: pgx.ErrNoRows, wantCode: ErrCodeNotFound},
		{
			name:      "unique from detail",
			err:       &pgconn.PgError{Code: pgerrcode.UniqueViolation, Detail: "Key (email)=(a@b.se) already exists."},
			wantCode:  ErrCodeConflict,
			wantField: "email",
		},
		{
			name:      "unique from constraint",
			err:       &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"},
			wantCode:  ErrCodeConflict,
			wantField: "email",
		},
		{
			name:     "missing parent job",
			err:      &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, Detail: `Key (job_id)=(9) is not present in table "jobs".`},
			wantCode: ErrCodeValidation,
			wantMsg:  "The referenced booking does not exist.",
		},
		{
			name:     "missing parent user from constraint",
			err:      &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "translator_jobs_user_id_fkey"},
			wantCode: ErrCodeValidation,
			wantMsg:  "The referenced user does not exist.",
		},
		{
			name:      "not null",
			err:       &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "from_language_id"},
			wantCode:  ErrCodeValidation,
			wantField: "from_language_id",
		},
		{
			name:     "other pg error",
			err:      &pgconn.PgError{Code: pgerrcode.DeadlockDetected},
			wantCode: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapDBError(tt.err)
			require.Error(t, got)
			assert.Equal(t, tt.wantCode, GetCode(got))
			assert.Equal(t, tt.wantField, GetField(got))
			if tt.wantMsg != "" {
				var appErr *AppError
				require.ErrorAs(t, got, &appErr)
				assert.Equal(t, tt.wantMsg, appErr.Message)
			}
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestMapDBError_PassThrough(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	plain := errors.New("not a db error")
	assert.Same(t, plain, MapDBError(plain))
}
