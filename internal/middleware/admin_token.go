package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rubricai-api/internal/utils"
)

// AdminToken guards destructive routes with a shared secret. When token is
// empty the guard lets every request through.
func AdminToken(token string, logger zerolog.Logger) fiber.Handler {
	expected := []byte(token)

	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}

		supplied := presentedAdminToken(c)
		if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), expected) != 1 {
			logger.Warn().
				Str("correlation_id", GetCorrelationID(c)).
				Str("path", c.Path()).
				Msg("unauthorized admin request")
			return utils.SendError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		return c.Next()
	}
}

// presentedAdminToken prefers X-Admin-Token and falls back to a bearer token.
func presentedAdminToken(c *fiber.Ctx) string {
	if header := c.Get("X-Admin-Token"); header != "" {
		return header
	}

	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
