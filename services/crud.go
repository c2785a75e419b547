// services/crud.go
package services

import (
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"prop-broker-dashboard/models"
)

var validate = validator.New()

// scrubUpdate drops immutable columns from a partial-update payload and
// stamps the updater. GORM re-stamps updated_at on its own.
func scrubUpdate(data map[string]any, updatedBy string) map[string]any {
	delete(data, "id")
	delete(data, "created_at")
	delete(data, "created_by")
	if updatedBy != "" {
		data["updated_by"] = updatedBy
	}
	return data
}

func sessionUsername(c *fiber.Ctx) string {
	if s, ok := c.Locals("session").(models.Session); ok {
		return s.Username
	}
	return ""
}
