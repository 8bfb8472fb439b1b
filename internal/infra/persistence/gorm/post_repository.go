package gormpersistence

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"
)

// GormPostRepository is the GORM implementation of repository.PostRepository.
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a GormPostRepository.
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPostRepository")
	}
	return &GormPostRepository{db: db}
}

// Create inserts a new post. The author must already exist.
func (r *GormPostRepository) Create(ctx context.Context, post *domain.Post) error {
	if strings.TrimSpace(post.Title) == "" {
		return fmt.Errorf("gorm: create post: %w: title is empty", repository.ErrInvalidInput)
	}
	// Omit keeps GORM from upserting a preloaded author alongside the post.
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return translateError(err, fmt.Sprintf("create post for author %d", post.AuthorID))
	}
	return nil
}

// List returns every post with its author, highest id first.
func (r *GormPostRepository) List(ctx context.Context) ([]domain.Post, error) {
	posts := make([]domain.Post, 0)
	err := r.db.WithContext(ctx).Preload("Author").Order("id DESC").Find(&posts).Error
	if err != nil {
		return nil, translateError(err, "list posts")
	}
	return posts, nil
}

// FindByID returns the post with its author.
func (r *GormPostRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, translateError(err, fmt.Sprintf("find post by id %d", id))
	}
	return &post, nil
}

// Update writes the fields set in patch. An empty patch only reads the post.
func (r *GormPostRepository) Update(ctx context.Context, id uint, patch domain.PostPatch) (*domain.Post, error) {
	updates := map[string]interface{}{}
	if title, ok := patch.Title.Get(); ok {
		if strings.TrimSpace(title) == "" {
			return nil, fmt.Errorf("gorm: update post %d: %w: title is empty", id, repository.ErrInvalidInput)
		}
		updates["title"] = title
	}
	if content, ok := patch.Content.Get(); ok {
		updates["content"] = content
	}
	return r.updateColumns(ctx, id, updates)
}

// SetPublished stores published verbatim.
func (r *GormPostRepository) SetPublished(ctx context.Context, id uint, published bool) (*domain.Post, error) {
	return r.updateColumns(ctx, id, map[string]interface{}{"published": published})
}

// Delete removes the post. Its author is left in place.
func (r *GormPostRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Post{}, id)
	if result.Error != nil {
		return translateError(result.Error, fmt.Sprintf("delete post %d", id))
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}
	return nil
}

// updateColumns checks existence first: MySQL reports zero affected rows for
// an update that writes identical values, so RowsAffected cannot signal a miss.
func (r *GormPostRepository) updateColumns(ctx context.Context, id uint, updates map[string]interface{}) (*domain.Post, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		err := r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).Updates(updates).Error
		if err != nil {
			return nil, translateError(err, fmt.Sprintf("update post %d", id))
		}
	}
	return r.FindByID(ctx, id)
}
