package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"go.uber.org/zap"
)

const userKey = "user"

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid token and stores the
// caller for CurrentUser.
func AuthMiddleware(verifier TokenVerifier, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := verifier.Verify(c.UserContext(), bearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				log.Error("token verification failed", zap.Error(err))
			}
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Unauthorized"))
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Forbidden"))
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated caller, or nil outside
// AuthMiddleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// bearerToken takes the last word of the header, so both "Bearer <token>"
// and a bare token are accepted.
func bearerToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
