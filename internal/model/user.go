// Package model defines domain entities for the application.
package model

import "time"

// User roles.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User represents a registered account that owns beans and, transitively,
// recipes. The password hash is never serialized in API responses.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin returns true if the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
