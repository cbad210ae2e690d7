package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/schoolbook/marksdesk/internal/app/models"
	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/app/repositories"
	"github.com/schoolbook/marksdesk/internal/mocks"
	"github.com/schoolbook/marksdesk/internal/pkg/apperrors"
	"github.com/schoolbook/marksdesk/internal/pkg/auth"
	"github.com/schoolbook/marksdesk/internal/testutil"
)

func newJWT(t *testing.T) *auth.JWTService {
	t.Helper()
	s, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: 480 * time.Minute})
	require.NoError(t, err)
	return s
}

func adminUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("Abc@12345")
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Username:     "Admin",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestAuth_Login_Success(t *testing.T) {
	ctx := context.Background()
	user := adminUser(t)
	store := &mocks.UserStore{}
	store.On("GetActiveByUsername", mock.Anything, "Admin").Return(user, nil)

	svc := NewAuthService(store, newJWT(t), testutil.MakeNoopLogger())

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "Admin", Password: "Abc@12345"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(480*60), resp.Token.ExpiresIn)
	assert.Equal(t, user.ID.String(), resp.User.ID)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	principal, err := svc.RequireAuth(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Admin", principal.Subject)
	assert.Equal(t, "ADMIN", principal.Role)
	assert.Equal(t, user.ID.String(), principal.UserID())
	store.AssertExpectations(t)
}

func TestAuth_Login_Failures(t *testing.T) {
	ctx := context.Background()
	user := adminUser(t)

	tests := []struct {
		name     string
		username string
		password string
		found    *models.User
		storeErr error
	}{
		{"unknown user", "Nobody", "Abc@12345", nil, repositories.ErrNotFound},
		{"wrong password", "Admin", "abc@12345", user, nil},
		{"empty password", "Admin", "", user, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mocks.UserStore{}
			store.On("GetActiveByUsername", mock.Anything, tt.username).Return(tt.found, tt.storeErr)
			svc := NewAuthService(store, newJWT(t), testutil.MakeNoopLogger())

			resp, err := svc.Login(ctx, &dto.LoginRequest{Username: tt.username, Password: tt.password})
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}

func TestAuth_Login_StoreFailureIsNotUnauthorized(t *testing.T) {
	store := &mocks.UserStore{}
	store.On("GetActiveByUsername", mock.Anything, "Admin").Return(nil, errors.New("connection reset"))
	svc := NewAuthService(store, newJWT(t), testutil.MakeNoopLogger())

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "Admin", Password: "Abc@12345"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuth_RequireAuth_Rejects(t *testing.T) {
	jwtSvc := newJWT(t)
	svc := NewAuthService(&mocks.UserStore{}, jwtSvc, testutil.MakeNoopLogger())

	token, err := jwtSvc.Issue("Admin", "ADMIN", nil)
	require.NoError(t, err)
	tampered := token[:len(token)-2] + "xx"

	expiredIssuer, err := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "test-secret",
		Now:       func() time.Time { return time.Now().Add(-9 * time.Hour) },
	})
	require.NoError(t, err)
	expired, err := expiredIssuer.Issue("Admin", "ADMIN", nil)
	require.NoError(t, err)

	for name, tok := range map[string]string{"tampered": tampered, "expired": expired, "garbage": "abc"} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.RequireAuth(tok)
			assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}

func TestAuth_VerifyToken(t *testing.T) {
	jwtSvc := newJWT(t)
	svc := NewAuthService(&mocks.UserStore{}, jwtSvc, testutil.MakeNoopLogger())

	token, err := jwtSvc.Issue("Admin", "ADMIN", nil)
	require.NoError(t, err)

	ok := svc.VerifyToken(token)
	assert.True(t, ok.Valid)
	assert.Equal(t, "Admin", ok.Payload["sub"])
	assert.Equal(t, "ADMIN", ok.Payload["role"])

	bad := svc.VerifyToken("not.a.token")
	assert.False(t, bad.Valid)
	assert.Nil(t, bad.Payload)
}

func TestAuth_CreateUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryUserStore()
	svc := NewAuthService(store, newJWT(t), testutil.MakeNoopLogger())

	user, err := svc.CreateUser(ctx, &dto.CreateUserRequest{Username: "Admin", Password: "Abc@12345"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Abc@12345", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "Abc@12345"))

	_, err = svc.CreateUser(ctx, &dto.CreateUserRequest{Username: "Admin", Password: "Other@123"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.CreateUser(ctx, &dto.CreateUserRequest{Username: "ab", Password: "Abc@12345"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "Admin", Password: "Abc@12345"})
	require.NoError(t, err)
	assert.Equal(t, "Admin", resp.User.Username)
}

func TestAuth_Login_InactiveUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryUserStore()
	user := adminUser(t)
	user.IsActive = false
	require.NoError(t, store.Create(ctx, user))

	svc := NewAuthService(store, newJWT(t), testutil.MakeNoopLogger())
	_, err := svc.Login(ctx, &dto.LoginRequest{Username: "Admin", Password: "Abc@12345"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
