package middleware

import (
	"errors"
	"strings"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/auth"
	"github.com/adconnect/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	CtxActor  = "actor"
	CtxClaims = "claims"
)

func AuthMiddleware(verifier auth.Verifier, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperr.Unauthenticated("missing authorization header")
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return apperr.Unauthenticated("invalid authorization format")
		}

		claims, err := verifier.Verify(c.UserContext(), tokenStr)
		if errors.Is(err, auth.ErrTokenRevoked) {
			return apperr.Unauthenticated("token has been revoked")
		}
		if err != nil {
			log.Debug("jwt verify error", zap.Error(err))
			return apperr.Unauthenticated("invalid or expired token")
		}

		c.Locals(CtxActor, claims.Actor())
		c.Locals(CtxClaims, claims)

		return c.Next()
	}
}

// GetActor returns the identity stored by AuthMiddleware. The zero Actor is
// returned on public routes.
func GetActor(c *fiber.Ctx) models.Actor {
	actor, _ := c.Locals(CtxActor).(models.Actor)
	return actor
}

func GetClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(CtxClaims).(*auth.Claims)
	return claims
}

// RequireRole lets the request through only for the given roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return apperr.Forbidden(string(roles[0]) + " access required")
	}
}
