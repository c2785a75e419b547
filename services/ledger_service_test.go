package services

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"prop-broker-dashboard/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, _ := sqlmock.New()
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestLedgerService_ApplyChanges_BestEffort(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	svc := NewLedgerService(db, NewBufferRegistry())

	buf := NewChangeBuffer()
	require.NoError(buf.Put(1, "prop_phase", "Phase 2"))
	require.NoError(buf.Put(2, "cycle_number", 3))
	require.NoError(buf.Put(3, "purchased_by", "Marco"))

	// Record 1 updates fine.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pamm_clients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Record 2 is gone: zero rows affected counts as a failure.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pamm_clients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// A failed sibling never blocks record 3.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pamm_clients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result := svc.applyChanges(buf.List())

	require.Equal(2, result.SuccessCount())
	require.Equal(1, result.FailureCount())
	require.Equal([]uint{1, 3}, result.Succeeded)
	require.Equal(uint(2), result.Failed[0].ID)
	require.Contains(result.Failed[0].Reason, "not found")
	require.NoError(mock.ExpectationsWereMet())
}

func TestLedgerService_SaveChanges_PartialFailureClearsBuffer(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	reg := NewBufferRegistry()
	svc := NewLedgerService(db, reg)

	buf := reg.Get("tok")
	require.NoError(buf.Put(1, "prop_phase", "Phase 2"))
	require.NoError(buf.Put(2, "cycle_number", 3))
	require.NoError(buf.Put(3, "purchased_by", "Marco"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pamm_clients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Record 2 is gone: a failed change must still count and still clear.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pamm_clients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pamm_clients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Authoritative reload after the pass.
	mock.ExpectQuery(`SELECT \* FROM "pamm_groups"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Gruppo Alpha"))
	mock.ExpectQuery(`SELECT \* FROM "pamm_clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "client_name"}).
			AddRow(1, 1, "Alpha"))

	app := fiber.New()
	app.Post("/save", func(c *fiber.Ctx) error {
		c.Locals("session", models.Session{Token: "tok", Username: "tester"})
		return svc.SaveChanges(c)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/save", nil))
	require.NoError(err)
	require.Equal(fiber.StatusOK, resp.StatusCode)

	var body struct {
		SuccessCount int `json:"success_count"`
		FailureCount int `json:"failure_count"`
	}
	require.NoError(json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(2, body.SuccessCount)
	require.Equal(1, body.FailureCount)
	require.Equal(3, body.SuccessCount+body.FailureCount)

	// The buffer is gone regardless of the failure.
	require.Equal(0, buf.Len())
	require.NoError(mock.ExpectationsWereMet())
}

func TestLedgerService_UpdateClientField_NotFound(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	svc := NewLedgerService(db, NewBufferRegistry())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pamm_clients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.updateClientField(42, "prop_phase", "Phase 1")
	require.Error(err)
	require.Contains(err.Error(), "record 42 not found")
	require.NoError(mock.ExpectationsWereMet())
}
