package repository

import (
	"context"

	"catalog-admin/internal/domain"
)

// ListingCache holds the rendered post listing between mutations.
type ListingCache interface {
	// GetListing returns ErrCacheMiss when nothing is cached.
	GetListing(ctx context.Context) ([]domain.Post, error)
	SetListing(ctx context.Context, posts []domain.Post) error
	InvalidateListing(ctx context.Context) error
}
