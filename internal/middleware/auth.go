package middleware

import (
	"strings"

	"github.com/eco-rangers/eco-rangers-api/internal/dto"
	"github.com/eco-rangers/eco-rangers-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	// Locals keys set by TokenProtected.
	UserKey  = "auth_user"
	TokenKey = "auth_token"
)

// TokenProtected requires a valid bearer token. The token is looked up, not
// decoded: revoked tokens never authenticate again. On success the resolved
// user and the presented token are stored in the request locals.
func TokenProtected(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return unauthorized(c)
		}

		user, err := authService.CurrentUser(token)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(UserKey, user)
		c.Locals(TokenKey, token)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized: invalid or missing token",
	})
}
