package repository

import (
	"context"

	"catalog-admin/internal/domain"
)

// PostRepository stores catalog posts. Every method that targets an id
// returns ErrPostNotFound when the row does not exist.
type PostRepository interface {
	// Create inserts the post and fills in its ID. A blank title yields ErrInvalidInput.
	Create(ctx context.Context, post *domain.Post) error

	// List returns all posts with their authors, newest (highest id) first.
	List(ctx context.Context) ([]domain.Post, error)

	// FindByID returns the post with its author.
	FindByID(ctx context.Context, id uint) (*domain.Post, error)

	// Update writes only the fields set in patch and returns the stored post.
	Update(ctx context.Context, id uint, patch domain.PostPatch) (*domain.Post, error)

	// SetPublished stores the flag exactly as given.
	SetPublished(ctx context.Context, id uint, published bool) (*domain.Post, error)

	Delete(ctx context.Context, id uint) error
}
