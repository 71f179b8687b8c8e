package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dariomolina/intranet-auth/models"
)

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
	))
	return gdb
}

func createPermission(t *testing.T, gdb *gorm.DB, name, module, action string) models.Permission {
	t.Helper()
	p := models.Permission{Name: name, Module: module, Action: action}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func createUser(t *testing.T, gdb *gorm.DB, email string, roleID *uint) models.User {
	t.Helper()
	u := models.User{Email: email, Name: "Test", RoleID: roleID}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}
