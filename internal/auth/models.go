package auth

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user can hold
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleTranslator = "translator"
	RoleReviewer   = "reviewer"
	RoleClient     = "client"
)

// ValidRole reports whether the role label is one the system knows
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleTranslator, RoleReviewer, RoleClient:
		return true
	}
	return false
}

// User is a platform account
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name,omitempty"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
