package util

import (
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
	t.Run("passes domain errors through", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", NewInvalidState("bad status", nil))
		de := ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, CodeInvalidState, de.Code)
		assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	})

	t.Run("maps no rows to not found", func(t *testing.T) {
		de := ToDomainError(fmt.Errorf("query: %w", pgx.ErrNoRows))
		assert.Equal(t, CodeNotFound, de.Code)
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	})

	t.Run("maps unique violations to conflict", func(t *testing.T) {
		de := ToDomainError(&pgconn.PgError{Code: "23505"})
		assert.Equal(t, CodeConflict, de.Code)
	})

	t.Run("maps check violations to validation", func(t *testing.T) {
		de := ToDomainError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23514", ConstraintName: "horas_trabajo_horas_check"}))
		assert.Equal(t, CodeValidation, de.Code)
		assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
		assert.Equal(t, "horas_trabajo_horas_check", de.Details["constraint"])
	})

	t.Run("maps fiber errors by status", func(t *testing.T) {
		de := ToDomainError(fiber.NewError(fiber.StatusTooManyRequests, "slow down"))
		assert.Equal(t, CodeRateLimited, de.Code)
		assert.Equal(t, "slow down", de.Message)
	})

	t.Run("hides unknown errors", func(t *testing.T) {
		de := ToDomainError(errors.New("boom"))
		assert.Equal(t, CodeInternal, de.Code)
		assert.Equal(t, "internal server error", de.Message)
	})
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewForbidden("nope"), CodeForbidden))
	assert.False(t, IsCode(errors.New("plain"), CodeForbidden))
}
