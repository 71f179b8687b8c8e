package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/models"
)

func TestUserStoreCreateDuplicateEmail(t *testing.T) {
	s := NewUserStore(newTestDB(t))

	require.NoError(t, s.Create(&models.User{Email: "ana@example.com", Name: "Ana"}))

	err := s.Create(&models.User{Email: "ana@example.com", Name: "Other"})
	assert.True(t, apperr.IsConflict(err))
}

func TestUserStoreFindByEmailLoadsRole(t *testing.T) {
	gdb := newTestDB(t)
	s := NewUserStore(gdb)

	view := createPermission(t, gdb, "users:view", "users", "view")
	role := models.Role{Name: "supervisor", Permissions: []models.Permission{view}}
	require.NoError(t, gdb.Create(&role).Error)
	createUser(t, gdb, "luis@example.com", &role.ID)

	user, err := s.FindByEmail("luis@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.Role)
	assert.Equal(t, "supervisor", user.Role.Name)
	assert.Equal(t, []string{"users:view"}, user.PermissionNames())

	_, err = s.FindByEmail("nobody@example.com")
	assert.True(t, apperr.IsNotFound(err))
}

func TestUserStoreDelete(t *testing.T) {
	gdb := newTestDB(t)
	s := NewUserStore(gdb)

	user := createUser(t, gdb, "ana@example.com", nil)
	require.NoError(t, s.Delete(user.ID))

	_, err := s.FindByID(user.ID)
	assert.True(t, apperr.IsNotFound(err))

	err = s.Delete(user.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUserStoreClearExpiredResetTokens(t *testing.T) {
	gdb := newTestDB(t)
	s := NewUserStore(gdb)

	expired := createUser(t, gdb, "expired@example.com", nil)
	fresh := createUser(t, gdb, "fresh@example.com", nil)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	expiredToken := "deadbeef"
	freshToken := "cafebabe"

	expired.ResetToken = &expiredToken
	expired.ResetTokenExpiry = &past
	require.NoError(t, s.Save(&expired))
	fresh.ResetToken = &freshToken
	fresh.ResetTokenExpiry = &future
	require.NoError(t, s.Save(&fresh))

	cleared, err := s.ClearExpiredResetTokens(time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, cleared)

	_, err = s.FindByResetToken(expiredToken)
	assert.True(t, apperr.IsNotFound(err))

	kept, err := s.FindByResetToken(freshToken)
	require.NoError(t, err)
	assert.Equal(t, "fresh@example.com", kept.Email)
}
