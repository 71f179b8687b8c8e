package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres connection. Foreign key constraints are not
// created by migrations: role deletion deliberately leaves assigned users
// pointing at the removed row, and permission deletion is guarded at the
// application layer.
func Connect(databaseURL string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
}
