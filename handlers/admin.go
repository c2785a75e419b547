// handlers/admin.go
package handlers

import (
	"prop-broker-dashboard/services"

	"github.com/gofiber/fiber/v2"
)

// SetupStatsRoutes exposes the landing-page overview counters. Any logged-in
// user can see them, no extra capability needed.
func SetupStatsRoutes(app *fiber.App, statsService *services.StatsService, session fiber.Handler) {
	app.Get("/stats", session, statsService.GetOverview)
}
