// models/user.go
package models

import (
	"encoding/json"
	"time"
)

// PermissionAll is the sentinel granting every capability.
const PermissionAll = "all"

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;not null"`
	Email        string `json:"email"`
	PasswordHash string `json:"-" gorm:"not null"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`

	RoleID   uint `json:"role_id" gorm:"index"`
	IsActive bool `json:"is_active" gorm:"default:true"`
	IsAdmin  bool `json:"is_admin" gorm:"default:false"`

	LastLogin *time.Time `json:"last_login"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	// JSON array of capability strings, or ["all"].
	Permissions string `json:"permissions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PermissionList decodes the stored permission set. Malformed or empty
// payloads yield no permissions rather than an error (fail closed).
func (r Role) PermissionList() []string {
	if r.Permissions == "" {
		return nil
	}
	var perms []string
	if err := json.Unmarshal([]byte(r.Permissions), &perms); err != nil {
		return nil
	}
	return perms
}

// Session is a server-side login record. Validity is purely time-boxed:
// once LoginAt is older than the horizon the session is dead, no refresh.
type Session struct {
	Token    string `json:"token" gorm:"primaryKey"`
	UserID   uint   `json:"user_id" gorm:"index"`
	Username string `json:"username"`
	Email    string `json:"email"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	RoleID   uint   `json:"role_id"`
	RoleName string `json:"role_name"`

	// JSON array, same encoding as Role.Permissions.
	Permissions string `json:"permissions"`

	LoginAt time.Time `json:"login_at"`
}

// Expired reports whether the session is past its horizon at the given time.
func (s Session) Expired(now time.Time, horizon time.Duration) bool {
	return now.Sub(s.LoginAt) > horizon
}

// PermissionList decodes the session's permission set.
func (s Session) PermissionList() []string {
	if s.Permissions == "" {
		return nil
	}
	var perms []string
	if err := json.Unmarshal([]byte(s.Permissions), &perms); err != nil {
		return nil
	}
	return perms
}

// HasPermission is true when the set contains p or the "all" sentinel.
func (s Session) HasPermission(p string) bool {
	for _, perm := range s.PermissionList() {
		if perm == p || perm == PermissionAll {
			return true
		}
	}
	return false
}

// HasRole is true when the session's role name is one of the given roles.
func (s Session) HasRole(roles []string) bool {
	for _, r := range roles {
		if r == s.RoleName {
			return true
		}
	}
	return false
}
