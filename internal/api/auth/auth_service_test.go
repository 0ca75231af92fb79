package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderwise/wanderwise-api/config"
	"github.com/wanderwise/wanderwise-api/internal/types"
)

type MockAuthRepo struct {
	mock.Mock
}

var _ AuthRepo = (*MockAuthRepo)(nil)

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*types.UserAuth), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*types.UserAuth), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthRepo) Register(ctx context.Context, username, email, passwordHash string) (string, error) {
	args := m.Called(ctx, username, email, passwordHash)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockAuthRepo) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepo) ValidateRefreshTokenAndGetUserID(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) InvalidateRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "wanderwise-api",
		Audience:        "wanderwise-app",
	}
	return cfg
}

func testUser(t *testing.T, password string) *types.UserAuth {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &types.UserAuth{
		ID:           "7b6f4c6a-9c1a-4a9f-8b68-0d0f6f2c9a11",
		Username:     "ana",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		Role:         "user",
	}
}

func newTestService(repo *MockAuthRepo) *AuthServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(repo, testAuthConfig(), logger)
}

func TestLogin_Success(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)
	user := testUser(t, "correct-horse")

	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)
	repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	access, refresh, err := svc.Login(context.Background(), user.Email, "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, refresh)

	// The access token carries the expected identity claims.
	claims := &types.Claims{}
	parsed, err := jwt.ParseWithClaims(access, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "wanderwise-api", claims.Issuer)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)
	user := testUser(t, "correct-horse")

	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	_, _, err := svc.Login(context.Background(), user.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)

	repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrUserNotFound)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshSession_RotatesToken(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)
	user := testUser(t, "pw")

	repo.On("ValidateRefreshTokenAndGetUserID", mock.Anything, "old-token").Return(user.ID, nil)
	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("InvalidateRefreshToken", mock.Anything, "old-token").Return(nil)
	repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	_, refresh, err := svc.RefreshSession(context.Background(), "old-token")
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", refresh)
	repo.AssertCalled(t, "InvalidateRefreshToken", mock.Anything, "old-token")
}

func TestUpdatePassword_InvalidatesAllRefreshTokens(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)
	user := testUser(t, "old-password")

	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("UpdatePassword", mock.Anything, user.ID, mock.Anything).Return(nil)
	repo.On("InvalidateAllUserRefreshTokens", mock.Anything, user.ID).Return(nil)

	err := svc.UpdatePassword(context.Background(), user.ID, "old-password", "new-password")
	require.NoError(t, err)
	repo.AssertCalled(t, "InvalidateAllUserRefreshTokens", mock.Anything, user.ID)
}

func TestUpdatePassword_WrongOldPassword(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)
	user := testUser(t, "old-password")

	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)

	err := svc.UpdatePassword(context.Background(), user.ID, "not-it", "new-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginOAuthUser_CreatesMissingUser(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)
	user := testUser(t, "ignored")

	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(nil, ErrUserNotFound)
	repo.On("Register", mock.Anything, user.Username, user.Email, mock.Anything).Return(user.ID, nil)
	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	access, refresh, err := svc.LoginOAuthUser(context.Background(), user.Username, user.Email)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	repo.AssertCalled(t, "Register", mock.Anything, user.Username, user.Email, mock.Anything)
}
