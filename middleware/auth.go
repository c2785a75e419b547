// middleware/auth.go
package middleware

import (
	"errors"
	"log"
	"time"

	"prop-broker-dashboard/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SessionAuthMiddleware resolves the X-Session-Token header to a stored
// session record. An expired session is deleted on sight and the request is
// treated as unauthenticated — fail closed, with a visible reason.
func SessionAuthMiddleware(db *gorm.DB, horizon time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Session-Token")
		if token == "" {
			log.Printf("🚫 [SESSION] missing session token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authenticated — please log in",
			})
		}

		var session models.Session
		if err := db.First(&session, "token = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "not authenticated — please log in",
				})
			}
			log.Printf("❌ [SESSION] lookup failed for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "session lookup failed",
			})
		}

		if session.Expired(time.Now(), horizon) {
			// Transparent logout: the stale record goes away and the caller
			// is told to log in again.
			if err := db.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
				log.Printf("⚠️ [SESSION] failed to purge expired session for %s: %v", session.Username, err)
			}
			log.Printf("⌛ [SESSION] expired session for %s", session.Username)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "session expired — please log in again",
			})
		}

		c.Locals("session", session)
		return c.Next()
	}
}
