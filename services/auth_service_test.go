package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword("hunter2", hash))
	assert.False(t, CheckPassword("hunter3", hash))
	assert.False(t, CheckPassword("hunter2", "not-a-hash"))
}

func userRow(hash string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role_id", "is_active"}).
		AddRow(1, "admin", "admin@example.com", hash, 2, active)
}

func TestAuthenticate_Success(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	svc := NewAuthService(db, NewBufferRegistry())

	hash, err := HashPassword("hunter2")
	require.NoError(err)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WithArgs("admin", 1).
		WillReturnRows(userRow(hash, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE id = \$1`).
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "permissions"}).
			AddRow(2, "Admin", `["all"]`))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "sessions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	session, err := svc.Authenticate("admin", "hunter2")
	require.NoError(err)
	require.NotEmpty(session.Token)
	assert.Equal(t, "admin", session.Username)
	assert.Equal(t, "Admin", session.RoleName)
	assert.True(t, session.HasPermission("manage_pamm"))
	require.NoError(mock.ExpectationsWereMet())
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db, NewBufferRegistry())

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WithArgs("ghost", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := svc.Authenticate("ghost", "whatever")
	require.ErrorIs(t, err, ErrInvalidLogin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	svc := NewAuthService(db, NewBufferRegistry())

	hash, err := HashPassword("hunter2")
	require.NoError(err)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WithArgs("admin", 1).
		WillReturnRows(userRow(hash, true))

	_, err = svc.Authenticate("admin", "wrong")
	require.ErrorIs(err, ErrInvalidLogin)
	require.NoError(mock.ExpectationsWereMet())
}

func TestAuthenticate_DeactivatedUser(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	svc := NewAuthService(db, NewBufferRegistry())

	hash, err := HashPassword("hunter2")
	require.NoError(err)

	// Same answer as a wrong password: the caller learns nothing extra.
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WithArgs("admin", 1).
		WillReturnRows(userRow(hash, false))

	_, err = svc.Authenticate("admin", "hunter2")
	require.ErrorIs(err, ErrInvalidLogin)
	require.NoError(mock.ExpectationsWereMet())
}
