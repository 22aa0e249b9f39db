package setup

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
)

// MigrateDB applies the schema for all persistent models.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Template{},
		&domain.Asset{},
		&domain.Subscription{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate tables: %w", err)
	}
	return nil
}
