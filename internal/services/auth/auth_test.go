package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/access-gate/internal/lib/jwt"
	"github.com/magabrotheeeer/access-gate/internal/lib/password"
	"github.com/magabrotheeeer/access-gate/internal/models"
)

// UsersMock реализует интерфейс UserRepository
type UsersMock struct {
	mock.Mock
}

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func TestRegister(t *testing.T) {
	users := new(UsersMock)
	var registered models.User
	users.On("RegisterUser", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		registered = args.Get(1).(models.User)
	}).Return("uid-1", nil)

	svc := NewAuthService(users, jwt.NewJWTMaker("test-secret", time.Hour))

	uid, err := svc.Register(context.Background(), "test@example.com", "testuser", "secret-password")

	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	assert.Equal(t, "testuser", registered.Username)
	assert.NotEqual(t, "secret-password", registered.PasswordHash)
	assert.NoError(t, password.CompareHash(registered.PasswordHash, "secret-password"))
}

func TestLoginSuccess(t *testing.T) {
	hash, err := password.GetHash("secret-password")
	require.NoError(t, err)

	users := new(UsersMock)
	users.On("GetUserByUsername", mock.Anything, "testuser").Return(&models.User{
		UID:          "uid-1",
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: hash,
	}, nil)

	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	svc := NewAuthService(users, maker)

	token, err := svc.Login(context.Background(), "testuser", "secret-password")

	require.NoError(t, err)
	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserUID)
	assert.Equal(t, "testuser", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := password.GetHash("secret-password")
	require.NoError(t, err)

	users := new(UsersMock)
	users.On("GetUserByUsername", mock.Anything, "testuser").Return(&models.User{
		Username:     "testuser",
		PasswordHash: hash,
	}, nil)

	svc := NewAuthService(users, jwt.NewJWTMaker("test-secret", time.Hour))

	_, err = svc.Login(context.Background(), "testuser", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, errors.New("no rows"))

	svc := NewAuthService(users, jwt.NewJWTMaker("test-secret", time.Hour))

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
