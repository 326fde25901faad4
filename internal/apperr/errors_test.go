package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", Validation("name is required", nil), fiber.StatusBadRequest},
		{"not found", NotFound("campaign"), fiber.StatusNotFound},
		{"forbidden", Forbidden("not yours"), fiber.StatusForbidden},
		{"conflict", Conflict("dependent ad requests exist"), fiber.StatusConflict},
		{"unauthenticated", Unauthenticated("invalid token"), fiber.StatusUnauthorized},
		{"wrapped", fmt.Errorf("load: %w", NotFound("user")), fiber.StatusNotFound},
		{"plain", errors.New("connection refused"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("delete: %w", Conflict("dependent ad requests exist"))

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, Conflict("a"), Conflict("a"))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "campaign not found", PublicMessage(NotFound("campaign")))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: password authentication failed")))
}
