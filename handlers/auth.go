// handlers/auth.go
package handlers

import (
	"prop-broker-dashboard/middleware"
	"prop-broker-dashboard/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService, session fiber.Handler) {
	// 🔓 Login is the only unauthenticated route in the system.
	app.Post("/auth/login", authService.Login)

	secured := app.Group("/auth", session)
	secured.Post("/logout", authService.Logout)
	secured.Get("/me", authService.Me)
}

// SetupUserRoutes wires the user and role admin surface. User accounts sit
// behind the manage_users capability (or the "all" sentinel); role
// definitions behind the Admin role.
func SetupUserRoutes(app *fiber.App, userService *services.UserService, session fiber.Handler) {
	admin := app.Group("/users", session, middleware.RequirePermission("manage_users"))
	admin.Get("/", userService.GetAll)
	admin.Get("/:id", userService.GetByID)
	admin.Post("/", userService.Create)
	admin.Put("/:id", userService.Update)
	admin.Patch("/:id", userService.Update)
	admin.Delete("/:id", userService.Delete)

	// Role definitions are the source of every permission set, so changing
	// them takes the Admin role itself, not just a capability.
	roles := app.Group("/roles", session, middleware.RequireRole("Admin"))
	roles.Get("/", userService.GetRoles)
	roles.Post("/", userService.CreateRole)
	roles.Put("/:id", userService.UpdateRole)
	roles.Delete("/:id", userService.DeleteRole)
}
