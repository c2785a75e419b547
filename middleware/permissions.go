// middleware/permissions.go
package middleware

import (
	"fmt"
	"log"
	"strings"

	"prop-broker-dashboard/models"

	"github.com/gofiber/fiber/v2"
)

// RequirePermission gates a route behind one capability. The "all" sentinel
// in the session's permission set passes every check. Denial halts the
// request with a visible reason and no partial content.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := c.Locals("session").(models.Session)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authenticated — please log in",
			})
		}
		if !session.HasPermission(permission) {
			log.Printf("🚫 [PERM] %s denied %s on %s", session.Username, permission, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": fmt.Sprintf("access denied — required permission: %s", permission),
			})
		}
		return c.Next()
	}
}

// RequireRole gates a route behind a role-name set.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := c.Locals("session").(models.Session)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authenticated — please log in",
			})
		}
		if !session.HasRole(roles) {
			log.Printf("🚫 [PERM] %s denied role check on %s", session.Username, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": fmt.Sprintf("access denied — required role: %s", strings.Join(roles, ", ")),
			})
		}
		return c.Next()
	}
}
