package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"catalog-admin/internal/domain"
)

// PostRepository is a mock of repository.PostRepository.
type PostRepository struct {
	mock.Mock
}

func (m *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	var posts []domain.Post
	if v := args.Get(0); v != nil {
		posts = v.([]domain.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	args := m.Called(ctx, id)
	return postOrNil(args.Get(0)), args.Error(1)
}

func (m *PostRepository) Update(ctx context.Context, id uint, patch domain.PostPatch) (*domain.Post, error) {
	args := m.Called(ctx, id, patch)
	return postOrNil(args.Get(0)), args.Error(1)
}

func (m *PostRepository) SetPublished(ctx context.Context, id uint, published bool) (*domain.Post, error) {
	args := m.Called(ctx, id, published)
	return postOrNil(args.Get(0)), args.Error(1)
}

func (m *PostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func postOrNil(v interface{}) *domain.Post {
	if v == nil {
		return nil
	}
	return v.(*domain.Post)
}
