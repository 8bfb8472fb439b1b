package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog-admin/internal/domain"
)

// GormUserRepository is the GORM implementation of repository.UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	if db == nil {
		panic("database connection cannot be nil for GormUserRepository")
	}
	return &GormUserRepository{db: db}
}

// UpsertByEmail inserts the user in a single INSERT ... ON CONFLICT statement
// so concurrent creators of the same email cannot produce two rows.
func (r *GormUserRepository) UpsertByEmail(ctx context.Context, email string, name *string) (*domain.User, error) {
	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}
	if name != nil {
		conflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}
	}

	user := domain.User{Email: email, Name: name}
	if err := r.db.WithContext(ctx).Clauses(conflict).Create(&user).Error; err != nil {
		return nil, translateError(err, fmt.Sprintf("upsert user '%s'", email))
	}

	// the returned id is not reliable across drivers when the row already existed
	return r.FindByEmail(ctx, email)
}

// FindByEmail looks a user up by its unique email.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where(&domain.User{Email: email}).First(&user).Error
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("find user by email '%s'", email))
	}
	return &user, nil
}

// FindByID looks a user up by primary key.
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err, fmt.Sprintf("find user by id %d", id))
	}
	return &user, nil
}
