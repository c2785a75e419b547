package services

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"prop-broker-dashboard/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newClientApp(svc *PammService) *fiber.App {
	app := fiber.New()
	app.Post("/groups/:id/clients", func(c *fiber.Ctx) error {
		c.Locals("session", models.Session{Token: "tok", Username: "tester"})
		return svc.CreateClient(c)
	})
	return app
}

func expectGroupLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM "pamm_groups" WHERE id = \$1`).
		WithArgs("5", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "Gruppo Alpha"))
}

func expectClientInsert(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "pamm_clients" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()
}

func TestPammService_CreateClient_ExplicitZeroCommission(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	svc := NewPammService(db)
	app := newClientApp(svc)

	expectGroupLookup(mock)
	expectClientInsert(mock)

	req := httptest.NewRequest("POST", "/groups/5/clients",
		strings.NewReader(`{"client_name":"Mario","deposit_amount":1000,"commission_pct":0}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(err)
	require.Equal(fiber.StatusCreated, resp.StatusCode)

	var client models.PammClient
	require.NoError(json.NewDecoder(resp.Body).Decode(&client))
	require.Equal(0.0, client.CommissionPct)
	require.NoError(mock.ExpectationsWereMet())
}

func TestPammService_CreateClient_DefaultCommission(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	svc := NewPammService(db)
	app := newClientApp(svc)

	expectGroupLookup(mock)
	expectClientInsert(mock)

	req := httptest.NewRequest("POST", "/groups/5/clients",
		strings.NewReader(`{"client_name":"Mario","deposit_amount":1000}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(err)
	require.Equal(fiber.StatusCreated, resp.StatusCode)

	var client models.PammClient
	require.NoError(json.NewDecoder(resp.Body).Decode(&client))
	require.Equal(models.StandardCommissionPct, client.CommissionPct)
	require.NoError(mock.ExpectationsWereMet())
}

func TestPammService_CreateClient_CommissionOutOfRange(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	svc := NewPammService(db)
	app := newClientApp(svc)

	expectGroupLookup(mock)

	req := httptest.NewRequest("POST", "/groups/5/clients",
		strings.NewReader(`{"client_name":"Mario","commission_pct":150}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(err)
	require.Equal(fiber.StatusBadRequest, resp.StatusCode)
	require.NoError(mock.ExpectationsWereMet())
}
