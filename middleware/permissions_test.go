package middleware

import (
	"net/http/httptest"
	"testing"

	"prop-broker-dashboard/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func gatedApp(session *models.Session, gate fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		if session != nil {
			c.Locals("session", *session)
		}
		return c.Next()
	}, gate, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func get(t *testing.T, app *fiber.App) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequirePermission(t *testing.T) {
	require := require.New(t)

	granted := &models.Session{Username: "u", Permissions: `["manage_pamm"]`}
	require.Equal(fiber.StatusOK, get(t, gatedApp(granted, RequirePermission("manage_pamm"))))

	denied := &models.Session{Username: "u", Permissions: `["manage_brokers"]`}
	require.Equal(fiber.StatusForbidden, get(t, gatedApp(denied, RequirePermission("manage_pamm"))))

	admin := &models.Session{Username: "u", Permissions: `["all"]`}
	require.Equal(fiber.StatusOK, get(t, gatedApp(admin, RequirePermission("manage_pamm"))))

	require.Equal(fiber.StatusUnauthorized, get(t, gatedApp(nil, RequirePermission("manage_pamm"))))
}

func TestRequireRole(t *testing.T) {
	require := require.New(t)

	admin := &models.Session{Username: "u", RoleName: "Admin"}
	require.Equal(fiber.StatusOK, get(t, gatedApp(admin, RequireRole("Admin"))))

	manager := &models.Session{Username: "u", RoleName: "Manager"}
	require.Equal(fiber.StatusForbidden, get(t, gatedApp(manager, RequireRole("Admin"))))
	require.Equal(fiber.StatusOK, get(t, gatedApp(manager, RequireRole("Admin", "Manager"))))

	require.Equal(fiber.StatusUnauthorized, get(t, gatedApp(nil, RequireRole("Admin"))))
}
