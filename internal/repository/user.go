package repository

import (
	"context"

	"catalog-admin/internal/domain"
)

// UserRepository stores post authors.
type UserRepository interface {
	// UpsertByEmail creates the user, or updates the name of the existing user
	// with that email. A nil name leaves a stored name unchanged.
	UpsertByEmail(ctx context.Context, email string, name *string) (*domain.User, error)

	// FindByEmail returns ErrUserNotFound when no user has that email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID returns ErrUserNotFound when the id does not exist.
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}
