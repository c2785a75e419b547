package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionExpired(t *testing.T) {
	assert := assert.New(t)
	horizon := 7 * 24 * time.Hour
	login := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Session{LoginAt: login}

	assert.False(s.Expired(login.Add(horizon-time.Second), horizon))
	assert.False(s.Expired(login.Add(horizon), horizon))
	assert.True(s.Expired(login.Add(horizon+time.Second), horizon))
}

func TestSessionHasPermission(t *testing.T) {
	assert := assert.New(t)

	s := Session{Permissions: `["manage_brokers","manage_pamm"]`}
	assert.True(s.HasPermission("manage_pamm"))
	assert.False(s.HasPermission("manage_users"))

	admin := Session{Permissions: `["all"]`}
	assert.True(admin.HasPermission("manage_users"))

	// Malformed or empty sets fail closed.
	assert.False(Session{Permissions: `not json`}.HasPermission("manage_pamm"))
	assert.False(Session{}.HasPermission("manage_pamm"))
}

func TestSessionHasRole(t *testing.T) {
	s := Session{RoleName: "Admin"}
	assert.True(t, s.HasRole([]string{"Admin", "Manager"}))
	assert.False(t, s.HasRole([]string{"Manager"}))
}

func TestRolePermissionList(t *testing.T) {
	assert.Equal(t, []string{"all"}, Role{Permissions: `["all"]`}.PermissionList())
	assert.Nil(t, Role{Permissions: ""}.PermissionList())
	assert.Nil(t, Role{Permissions: "broken"}.PermissionList())
}

func TestCommissionStandard(t *testing.T) {
	assert.True(t, PammClient{CommissionPct: 25}.CommissionStandard())
	assert.False(t, PammClient{CommissionPct: 30}.CommissionStandard())
}
