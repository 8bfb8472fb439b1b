package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// OperatorSubject is the JWT subject issued to the catalog operator.
const OperatorSubject = "operator"

// AuthService authenticates the single catalog operator against a bcrypt hash
// and issues signed tokens.
type AuthService struct {
	passwordHash []byte
	jwtSecret    []byte
	jwtExpiry    time.Duration
}

// NewAuthService creates an AuthService. passwordHash may be empty, in which
// case Login always fails but IssueToken still works.
func NewAuthService(passwordHash, jwtSecretKey string, jwtExpiryHours int) (*AuthService, error) {
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24
	}
	return &AuthService{
		passwordHash: []byte(passwordHash),
		jwtSecret:    []byte(jwtSecretKey),
		jwtExpiry:    time.Duration(jwtExpiryHours) * time.Hour,
	}, nil
}

// Login checks the operator password and returns a signed token.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	if len(s.passwordHash) == 0 {
		logrus.Warn("Login attempt failed: no operator password configured")
		return "", ErrAuthenticationFailed
	}
	if password == "" || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		logrus.Warn("Login attempt failed: invalid password")
		return "", ErrAuthenticationFailed
	}

	token, err := s.IssueToken(OperatorSubject)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate JWT token during login")
		return "", ErrInternalServer
	}
	logrus.Info("Operator logged in")
	return token, nil
}

// IssueToken signs a token for subject that expires after the configured expiry.
func (s *AuthService) IssueToken(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// HashPassword returns the bcrypt hash stored in OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}
