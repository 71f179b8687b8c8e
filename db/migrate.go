package db

import (
	"gorm.io/gorm"

	"github.com/dariomolina/intranet-auth/models"
)

// Migrate applies the schema for all models.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
	)
}
