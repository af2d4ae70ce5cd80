package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"domain error passes through", NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("load: %w", NewNotFound("project", nil)), "NOT_FOUND", http.StatusNotFound},
		{"fiber error keeps status", fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"fiber method not allowed", fiber.ErrMethodNotAllowed, "REQUEST_FAILED", http.StatusMethodNotAllowed},
		{"pgx no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"sql no rows", sql.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "clients_name_key"}, "CONFLICT", http.StatusConflict},
		{"malformed uuid", fmt.Errorf("get project: %w", &pgconn.PgError{Code: "22P02"}), "VALIDATION_FAILED", http.StatusBadRequest},
		{"other pg error", &pgconn.PgError{Code: "23503"}, "INTERNAL_ERROR", http.StatusInternalServerError},
		{"plain error", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}

	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestUniqueViolationCarriesConstraint(t *testing.T) {
	got := ToDomainError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"})
	assert.Equal(t, "users_email_key", got.Details["constraint"])
	assert.ErrorContains(t, got, "resource already exists")
}

func TestMapNotFound(t *testing.T) {
	err := MapNotFound(pgx.ErrNoRows, "settlement", "s-1")
	de := ToDomainError(err)
	assert.Equal(t, "settlement not found", de.Message)
	assert.Equal(t, "s-1", de.Details["id"])

	assert.NoError(t, MapNotFound(nil, "settlement", "s-1"))
	assert.Equal(t, "INTERNAL_ERROR", ToDomainError(MapNotFound(errors.New("timeout"), "settlement", "s-1")).Code)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(NewNotFound("client", nil)))
	assert.False(t, IsNotFound(NewConflict("dup", nil)))
	assert.False(t, IsNotFound(nil))
}

func TestInternalErrorHidesCause(t *testing.T) {
	err := NewInternalError(errors.New("pq: password authentication failed"))
	de := ToDomainError(err)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorContains(t, err, "password authentication failed")
	assert.Equal(t, "pq: password authentication failed", errors.Unwrap(err).Error())
}
