package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"catalog-admin/internal/service"
)

func newAuthService(t *testing.T, password string) *service.AuthService {
	t.Helper()
	hash := ""
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		hash = string(h)
	}
	authService, err := service.NewAuthService(hash, "test-secret", 1)
	require.NoError(t, err)
	return authService
}

func TestNewAuthService_EmptySecret(t *testing.T) {
	_, err := service.NewAuthService("", "", 1)
	assert.Error(t, err)
}

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	authService := newAuthService(t, "hunter2")

	// Act
	token, err := authService.Login(context.Background(), "hunter2")

	// Assert
	require.NoError(t, err)
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, service.OperatorSubject, claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestAuthService_Login_IncorrectPassword(t *testing.T) {
	authService := newAuthService(t, "hunter2")

	token, err := authService.Login(context.Background(), "wrong")

	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
}

func TestAuthService_Login_NoPasswordConfigured(t *testing.T) {
	authService := newAuthService(t, "")

	_, err := authService.Login(context.Background(), "")

	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestHashPassword(t *testing.T) {
	hash, err := service.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = service.HashPassword("")
	assert.Error(t, err)
}
