package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"catalog-admin/internal/domain"
)

// ListingCache is a mock of repository.ListingCache.
type ListingCache struct {
	mock.Mock
}

func (m *ListingCache) GetListing(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	var posts []domain.Post
	if v := args.Get(0); v != nil {
		posts = v.([]domain.Post)
	}
	return posts, args.Error(1)
}

func (m *ListingCache) SetListing(ctx context.Context, posts []domain.Post) error {
	args := m.Called(ctx, posts)
	return args.Error(0)
}

func (m *ListingCache) InvalidateListing(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
