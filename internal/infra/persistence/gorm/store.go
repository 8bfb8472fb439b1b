package gormpersistence

import (
	"context"

	"gorm.io/gorm"

	"catalog-admin/internal/repository"
)

// GormStore implements repository.Store on top of a *gorm.DB.
type GormStore struct {
	db    *gorm.DB
	users *GormUserRepository
	posts *GormPostRepository
}

// NewGormStore creates a store. db is injected by the caller, which also owns its lifecycle.
func NewGormStore(db *gorm.DB) *GormStore {
	if db == nil {
		panic("database connection cannot be nil for GormStore")
	}
	return &GormStore{
		db:    db,
		users: NewGormUserRepository(db),
		posts: NewGormPostRepository(db),
	}
}

func (s *GormStore) Users() repository.UserRepository { return s.users }

func (s *GormStore) Posts() repository.PostRepository { return s.posts }

// WithinTx runs fn inside a GORM transaction.
func (s *GormStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
