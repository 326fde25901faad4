package handlers

import (
	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid "+name, map[string]string{name: "must be a uuid"})
	}
	return id, nil
}

func bindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("invalid request body", nil)
	}
	return nil
}

// pagination reads ?limit=&offset=; malformed values fall back to defaults.
func pagination(c *fiber.Ctx) dto.Pagination {
	var p dto.Pagination
	if err := c.QueryParser(&p); err != nil {
		p = dto.Pagination{}
	}
	return p.Normalize()
}
