// handlers/pamm.go
package handlers

import (
	"prop-broker-dashboard/middleware"
	"prop-broker-dashboard/services"

	"github.com/gofiber/fiber/v2"
)

// SetupPammRoutes wires PAMM group management, the per-group client rows
// and the ledger editor with its session-scoped pending buffer.
func SetupPammRoutes(app *fiber.App, pammService *services.PammService, ledgerService *services.LedgerService, exportService *services.ExportService, session fiber.Handler) {
	groups := app.Group("/pamm/groups", session, middleware.RequirePermission("manage_pamm"))
	groups.Get("/schema", pammService.GetGroupSchema)
	groups.Get("/", pammService.GetGroups)
	groups.Get("/:id", pammService.GetGroupByID)
	groups.Post("/", pammService.CreateGroup)
	groups.Put("/:id", pammService.UpdateGroup)
	groups.Patch("/:id", pammService.UpdateGroup)
	groups.Delete("/:id", pammService.DeleteGroup)

	// Client rows hang off their group.
	groups.Get("/:id/clients", pammService.GetClients)
	groups.Post("/:id/clients", pammService.CreateClient)
	groups.Delete("/:id/clients/:clientId", pammService.DeleteClient)

	ledger := app.Group("/pamm/ledger", session, middleware.RequirePermission("manage_pamm"))
	ledger.Get("/client-schema", pammService.GetClientSchema)
	ledger.Get("/", ledgerService.GetLedger)
	ledger.Post("/changes", ledgerService.BufferEdit)
	ledger.Get("/changes", ledgerService.ListChanges)
	ledger.Delete("/changes", ledgerService.DiscardChanges)
	ledger.Post("/save", ledgerService.SaveChanges)
	ledger.Post("/bulk-status", ledgerService.BulkStatus)
	ledger.Get("/export", exportService.ExportLedger)
}
