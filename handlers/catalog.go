// handlers/catalog.go
package handlers

import (
	"prop-broker-dashboard/middleware"
	"prop-broker-dashboard/services"

	"github.com/gofiber/fiber/v2"
)

// SetupBrokerRoutes wires the broker CRUD pages.
func SetupBrokerRoutes(app *fiber.App, svc *services.BrokerService, session fiber.Handler) {
	g := app.Group("/brokers", session, middleware.RequirePermission("manage_brokers"))
	g.Get("/schema", svc.GetSchema)
	g.Get("/", svc.GetAll)
	g.Get("/:id", svc.GetByID)
	g.Post("/", svc.Create)
	g.Post("/form", svc.CreateFromForm)
	g.Put("/:id", svc.Update)
	g.Patch("/:id", svc.Update)
	g.Delete("/:id", svc.Delete)
}

func SetupPropFirmRoutes(app *fiber.App, svc *services.PropFirmService, session fiber.Handler) {
	g := app.Group("/prop-firms", session, middleware.RequirePermission("manage_props"))
	g.Get("/schema", svc.GetSchema)
	g.Get("/", svc.GetAll)
	g.Get("/:id", svc.GetByID)
	g.Post("/", svc.Create)
	g.Put("/:id", svc.Update)
	g.Patch("/:id", svc.Update)
	g.Delete("/:id", svc.Delete)
}

func SetupWalletRoutes(app *fiber.App, svc *services.WalletService, session fiber.Handler) {
	g := app.Group("/wallets", session, middleware.RequirePermission("manage_wallets"))
	g.Get("/schema", svc.GetSchema)
	g.Get("/", svc.GetAll)
	g.Get("/:id", svc.GetByID)
	g.Post("/", svc.Create)
	g.Put("/:id", svc.Update)
	g.Patch("/:id", svc.Update)
	g.Delete("/:id", svc.Delete)
}

func SetupCopierPackRoutes(app *fiber.App, svc *services.CopierPackService, session fiber.Handler) {
	g := app.Group("/copier-packs", session, middleware.RequirePermission("manage_packs"))
	g.Get("/schema", svc.GetSchema)
	g.Get("/", svc.GetAll)
	g.Get("/:id", svc.GetByID)
	g.Post("/", svc.Create)
	g.Put("/:id", svc.Update)
	g.Patch("/:id", svc.Update)
	g.Delete("/:id", svc.Delete)
}

func SetupCrossingRoutes(app *fiber.App, svc *services.CrossingService, session fiber.Handler) {
	g := app.Group("/crossings", session, middleware.RequirePermission("manage_crossings"))
	g.Get("/schema", svc.GetSchema)
	g.Get("/", svc.GetAll)
	g.Get("/:id", svc.GetByID)
	g.Post("/", svc.Create)
	g.Put("/:id", svc.Update)
	g.Patch("/:id", svc.Update)
	g.Delete("/:id", svc.Delete)
}
