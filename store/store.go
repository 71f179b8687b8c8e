// Package store owns all database access for users, roles and
// permissions. Stores are constructed once at startup and injected into
// the services and the authorization engine; nothing in here keeps state
// between requests.
package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dariomolina/intranet-auth/models"
)

// PermissionStore manages the permission catalog.
type PermissionStore interface {
	Create(p *models.Permission) error
	FindByID(id uint) (*models.Permission, error)
	FindAll() ([]models.Permission, error)
	FindByModule(module string) ([]models.Permission, error)
	Modules() ([]string, error)
	Delete(id uint) error
}

// CreateRoleInput carries the fields for a new role. PermissionIDs may be
// nil (role created without links).
type CreateRoleInput struct {
	Name          string
	Description   string
	PermissionIDs []uint
}

// UpdateRoleInput carries a partial role update. A nil PermissionIDs
// leaves the link set untouched; a non-nil slice (including an empty one)
// replaces it entirely.
type UpdateRoleInput struct {
	Name          *string
	Description   *string
	PermissionIDs []uint
}

// RoleStore manages roles, their permission links and user assignment.
type RoleStore interface {
	Create(in CreateRoleInput) (*models.Role, error)
	Update(id uint, in UpdateRoleInput) (*models.Role, error)
	FindByID(id uint) (*models.Role, error)
	FindByName(name string) (*models.Role, error)
	FindAll() ([]models.Role, error)
	Delete(id uint) error
	AssignToUser(userID, roleID uint) (*models.User, error)
	RemoveFromUser(userID uint) (*models.User, error)
}

// UserStore manages user records. Find methods load the role and its
// permissions so callers can snapshot them.
type UserStore interface {
	Create(u *models.User) error
	Save(u *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByResetToken(token string) (*models.User, error)
	FindAll() ([]models.User, error)
	Delete(id uint) error
	ClearExpiredResetTokens(now time.Time) (int64, error)
}

// translateDuplicate maps a storage-level unique violation onto the given
// Conflict error; everything else passes through.
func translateDuplicate(err, conflict error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return err
}
