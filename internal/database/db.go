package database

import (
	"github.com/inkwelldev/inkwell/internal/config"
	"github.com/inkwelldev/inkwell/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the database described by the config and returns the
// handle. The handle is passed explicitly to repositories; there is no
// package-level connection. TranslateError maps driver unique-violation
// errors to gorm.ErrDuplicatedKey, which the repositories depend on.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema. The unique indexes on users
// (username, email) are what makes concurrent duplicate registration safe.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Post{})
}
