// Package auth manages platform accounts and JWT issuance
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/middleware"
)

// RegisterInput is the account creation payload
type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
	Role     string
}

// Service implements registration, login, and profile lookup
type Service struct {
	repo          RepositoryInterface
	jwtSecret     string
	jwtExpiration time.Duration
	logger        *zap.Logger
}

// NewService creates the auth service
func NewService(repo RepositoryInterface, jwtSecret string, jwtExpiration time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:          repo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		logger:        logger,
	}
}

// Register creates a new account. Unknown roles are rejected; an empty
// role defaults to translator.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	role := input.Role
	if role == "" {
		role = RoleTranslator
	}
	if !ValidRole(role) {
		return nil, common.NewBadRequestError("invalid role", nil)
	}

	if existing, _ := s.repo.GetUserByEmail(ctx, input.Email); existing != nil {
		return nil, common.NewConflictError("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalServerError("failed to hash password")
	}

	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, common.NewInternalServerError("failed to create user")
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role))

	return user, nil
}

// Login verifies credentials and issues a JWT
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, common.NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, common.NewUnauthorizedError("invalid credentials")
	}
	if !user.IsActive {
		return "", nil, common.NewUnauthorizedError("account is disabled")
	}

	token, err := middleware.GenerateToken(s.jwtSecret, user.ID, user.Email, user.Role, s.jwtExpiration)
	if err != nil {
		return "", nil, common.NewInternalServerError("failed to issue token")
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	return token, user, nil
}

// GetUser returns the account for the given id
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, common.NewNotFoundError("user not found")
	}
	return user, nil
}
