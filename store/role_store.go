package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/models"
)

type roleStore struct {
	db *gorm.DB
}

// NewRoleStore returns a gorm-backed RoleStore.
func NewRoleStore(db *gorm.DB) RoleStore {
	return &roleStore{db: db}
}

func (s *roleStore) Create(in CreateRoleInput) (*models.Role, error) {
	var existing models.Role
	if s.db.Where("name = ?", in.Name).First(&existing).RowsAffected > 0 {
		return nil, apperr.Conflict("Role with this name already exists")
	}

	role := models.Role{Name: in.Name, Description: in.Description}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return translateDuplicate(err, apperr.Conflict("Role with this name already exists"))
		}
		if len(in.PermissionIDs) > 0 {
			permissions, err := s.permissionsByID(tx, in.PermissionIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&role).Association("Permissions").Append(permissions); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(role.ID)
}

// Update applies a partial update. When in.PermissionIDs is non-nil the
// whole link set is replaced inside one transaction: empty means "no
// permissions", not "leave as is".
func (s *roleStore) Update(id uint, in UpdateRoleInput) (*models.Role, error) {
	role, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = *in.Name
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if len(updates) > 0 {
			if err := tx.Model(role).Updates(updates).Error; err != nil {
				return translateDuplicate(err, apperr.Conflict("Role with this name already exists"))
			}
		}

		if in.PermissionIDs != nil {
			if len(in.PermissionIDs) == 0 {
				return tx.Model(role).Association("Permissions").Clear()
			}
			permissions, err := s.permissionsByID(tx, in.PermissionIDs)
			if err != nil {
				return err
			}
			return tx.Model(role).Association("Permissions").Replace(permissions)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(id)
}

func (s *roleStore) FindByID(id uint) (*models.Role, error) {
	var role models.Role
	if err := s.db.Preload("Permissions").First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Role not found")
		}
		return nil, err
	}
	s.db.Model(&models.User{}).Where("role_id = ?", role.ID).Count(&role.UserCount)
	return &role, nil
}

func (s *roleStore) FindByName(name string) (*models.Role, error) {
	var role models.Role
	if err := s.db.Preload("Permissions").Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Role not found")
		}
		return nil, err
	}
	return &role, nil
}

func (s *roleStore) FindAll() ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.Preload("Permissions").Find(&roles).Error; err != nil {
		return nil, err
	}

	type roleCount struct {
		RoleID uint
		Total  int64
	}
	var counts []roleCount
	err := s.db.Model(&models.User{}).
		Select("role_id, count(*) as total").
		Where("role_id IS NOT NULL").
		Group("role_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byRole := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byRole[c.RoleID] = c.Total
	}
	for i := range roles {
		roles[i].UserCount = byRole[roles[i].ID]
	}
	return roles, nil
}

// Delete removes the role and its permission links. Users holding the
// role keep their role_id pointing at the deleted row; reads treat that
// the same as having no role.
func (s *roleStore) Delete(id uint) error {
	role, err := s.FindByID(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(role).Association("Permissions").Clear(); err != nil {
			return err
		}
		return tx.Delete(role).Error
	})
}

func (s *roleStore) AssignToUser(userID, roleID uint) (*models.User, error) {
	if _, err := s.FindByID(roleID); err != nil {
		return nil, err
	}

	var user models.User
	if s.db.First(&user, userID).RowsAffected == 0 {
		return nil, apperr.NotFound("User not found")
	}

	if err := s.db.Model(&user).Update("role_id", roleID).Error; err != nil {
		return nil, err
	}
	return s.findUser(userID)
}

func (s *roleStore) RemoveFromUser(userID uint) (*models.User, error) {
	var user models.User
	if s.db.First(&user, userID).RowsAffected == 0 {
		return nil, apperr.NotFound("User not found")
	}

	if err := s.db.Model(&user).Update("role_id", nil).Error; err != nil {
		return nil, err
	}
	return s.findUser(userID)
}

func (s *roleStore) findUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role.Permissions").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// permissionsByID resolves ids to permission rows. Duplicate ids collapse
// to one link; unknown ids are a NotFound.
func (s *roleStore) permissionsByID(tx *gorm.DB, ids []uint) ([]models.Permission, error) {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var permissions []models.Permission
	if err := tx.Where("id IN ?", ids).Find(&permissions).Error; err != nil {
		return nil, err
	}
	if len(permissions) != len(unique) {
		return nil, apperr.NotFound("Permission not found")
	}
	return permissions, nil
}
