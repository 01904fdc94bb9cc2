package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/middleware"
)

type fakeRepository struct {
	byEmail map[string]*User
	byID    map[uuid.UUID]*User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byEmail: make(map[string]*User),
		byID:    make(map[uuid.UUID]*User),
	}
}

func (f *fakeRepository) CreateUser(_ context.Context, user *User) error {
	user.CreatedAt = time.Now().UTC()
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeRepository) GetUserByEmail(_ context.Context, email string) (*User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return user, nil
}

func (f *fakeRepository) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return user, nil
}

func (f *fakeRepository) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	if user, ok := f.byID[id]; ok {
		user.LastLogin = &now
	}
	return nil
}

const testSecret = "test-secret"

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	return NewService(repo, testSecret, time.Hour, zap.NewNop()), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "marie@example.com",
		Username: "marie",
		Password: "supersecret",
		FullName: "Marie Dupont",
	})
	require.NoError(t, err)

	assert.Equal(t, RoleTranslator, user.Role, "role defaults to translator")
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "supersecret", user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Username: "a", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Username: "b", Password: "password2"})
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.Code)
}

func TestRegister_InvalidRole(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@example.com", Username: "a", Password: "password1", Role: "superuser",
	})
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.Code)
}

func TestLogin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Email: "marie@example.com", Username: "marie", Password: "supersecret", Role: RoleManager,
	})
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "marie@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := middleware.ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID.String(), claims.UserID)
	assert.Equal(t, RoleManager, claims.Role)

	assert.NotNil(t, repo.byID[registered.ID].LastLogin)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Username: "a", Password: "password1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@example.com", "nope")
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 401, appErr.Code)
}

func TestLogin_UnknownEmailAndDisabledAccount(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	var appErr *common.AppError
	_, _, err := svc.Login(ctx, "ghost@example.com", "whatever")
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 401, appErr.Code)

	user, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Username: "a", Password: "password1"})
	require.NoError(t, err)
	repo.byID[user.ID].IsActive = false

	_, _, err = svc.Login(ctx, "a@example.com", "password1")
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 401, appErr.Code)
}

func TestGetUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Username: "a", Password: "password1"})
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)

	_, err = svc.GetUser(ctx, uuid.New())
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Code)
}
