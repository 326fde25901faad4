package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adconnect/backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.JSON(pagination(c)) })

	tests := []struct {
		query string
		want  dto.Pagination
	}{
		{"", dto.Pagination{Limit: 20}},
		{"?limit=5&offset=10", dto.Pagination{Limit: 5, Offset: 10}},
		{"?limit=500&offset=-2", dto.Pagination{Limit: 20}},
		{"?limit=abc", dto.Pagination{Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			require.NoError(t, err)

			var got dto.Pagination
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}
