package middleware

import (
	"strings"

	"github.com/dkl25/admin-api/pkg/jwt"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// AuthMiddleware verifies the Supabase access token in the Authorization
// header and stores the caller in c.Locals.
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authorization header is required"))
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid authorization header format"))
		}

		user, err := jwt.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid token"))
		}

		c.Locals(userKey, *user)
		return c.Next()
	}
}

// QueryTokenAuth is AuthMiddleware for websocket upgrades, where browsers
// cannot set headers and send the token as ?token=.
func QueryTokenAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("token is required"))
		}
		user, err := jwt.ParseToken(token, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid token"))
		}
		c.Locals(userKey, *user)
		return c.Next()
	}
}

// RequireWriter rejects callers that may only read.
func RequireWriter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok || !user.CanWrite() {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Insufficient permissions"))
		}
		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(userKey).(models.User)
	return user, ok
}
