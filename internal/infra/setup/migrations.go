package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-admin/internal/domain"
)

// MigrateDB creates or updates the User and Post tables. Users go first so
// the Post foreign key has a target.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		logrus.Errorf("Failed to auto-migrate User table: %v", err)
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	if err := db.AutoMigrate(&domain.Post{}); err != nil {
		logrus.Errorf("Failed to auto-migrate Post table: %v", err)
		return fmt.Errorf("failed to migrate posts table: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
