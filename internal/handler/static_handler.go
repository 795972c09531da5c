package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/rubricai-api/web"
)

// Index serves the embedded UI page.
func Index() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(web.IndexHTML)
	}
}
