package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/models"
)

func TestPermissionStoreCreate(t *testing.T) {
	s := NewPermissionStore(newTestDB(t))

	p := models.Permission{Name: "users:view", Module: "users", Action: "view"}
	require.NoError(t, s.Create(&p))
	assert.NotZero(t, p.ID)

	dup := models.Permission{Name: "users:view", Module: "users", Action: "view"}
	err := s.Create(&dup)
	assert.True(t, apperr.IsConflict(err))
}

func TestPermissionStoreOrdering(t *testing.T) {
	gdb := newTestDB(t)
	s := NewPermissionStore(gdb)

	// Inserted deliberately out of order.
	createPermission(t, gdb, "users:view", "users", "view")
	createPermission(t, gdb, "dashboard:view", "dashboard", "view")
	createPermission(t, gdb, "users:manage", "users", "manage")
	createPermission(t, gdb, "tickets:create", "tickets", "create")

	all, err := s.FindAll()
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"dashboard:view", "tickets:create", "users:manage", "users:view"}, names)

	users, err := s.FindByModule("users")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "users:manage", users[0].Name)
	assert.Equal(t, "users:view", users[1].Name)

	modules, err := s.Modules()
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard", "tickets", "users"}, modules)
}

func TestPermissionStoreDelete(t *testing.T) {
	gdb := newTestDB(t)
	s := NewPermissionStore(gdb)

	p := createPermission(t, gdb, "stats:view", "stats", "view")
	require.NoError(t, s.Delete(p.ID))

	_, err := s.FindByID(p.ID)
	assert.True(t, apperr.IsNotFound(err))

	err = s.Delete(p.ID)
	assert.True(t, apperr.IsNotFound(err))
}
