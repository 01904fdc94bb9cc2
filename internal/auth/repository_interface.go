package auth

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for auth repository operations
type RepositoryInterface interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
