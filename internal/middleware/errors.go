package middleware

import (
	"errors"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatusOf maps a handler error to its HTTP status.
func StatusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperr.HTTPStatus(err)
}

// ErrorHandler renders every error returned through the fiber chain as a
// dto.ErrorResponse. Internal errors are logged and replaced with a generic
// message.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := StatusOf(err)
		resp := dto.ErrorResponse{
			Error:     apperr.PublicMessage(err),
			Category:  dto.CategoryDanger,
			RequestID: GetRequestID(c),
		}

		var (
			fe *fiber.Error
			ae *apperr.Error
		)
		switch {
		case errors.As(err, &ae):
			resp.Fields = ae.Fields
		case errors.As(err, &fe):
			resp.Error = fe.Message
		default:
			log.Error("request failed",
				zap.String("request_id", resp.RequestID),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(status).JSON(resp)
	}
}
