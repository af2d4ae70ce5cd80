package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Require ensures the caller's role may perform action on object.
func Require(authz *Authorizer, logger *zap.Logger, object, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}

		allowed, enforced, err := authz.Authorize(principal.Role(), object, action)
		if err != nil {
			return err
		}
		if allowed {
			return c.Next()
		}
		if !enforced {
			logger.Warn("authz shadow deny",
				zap.String("user_id", principal.UserID()),
				zap.String("role", string(principal.Role())),
				zap.String("object", object),
				zap.String("action", action),
			)
			return c.Next()
		}
		return fiber.NewError(http.StatusForbidden, "insufficient role")
	}
}

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}
