package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/models"
)

type permissionStore struct {
	db *gorm.DB
}

// NewPermissionStore returns a gorm-backed PermissionStore.
func NewPermissionStore(db *gorm.DB) PermissionStore {
	return &permissionStore{db: db}
}

func (s *permissionStore) Create(p *models.Permission) error {
	var existing models.Permission
	if s.db.Where("name = ?", p.Name).First(&existing).RowsAffected > 0 {
		return apperr.Conflict("Permission with this name already exists")
	}

	if err := s.db.Create(p).Error; err != nil {
		return translateDuplicate(err, apperr.Conflict("Permission with this name already exists"))
	}
	return nil
}

func (s *permissionStore) FindByID(id uint) (*models.Permission, error) {
	var permission models.Permission
	if err := s.db.First(&permission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Permission not found")
		}
		return nil, err
	}
	return &permission, nil
}

func (s *permissionStore) FindAll() ([]models.Permission, error) {
	var permissions []models.Permission
	if err := s.db.Order("module asc, action asc").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (s *permissionStore) FindByModule(module string) ([]models.Permission, error) {
	var permissions []models.Permission
	if err := s.db.Where("module = ?", module).Order("action asc").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (s *permissionStore) Modules() ([]string, error) {
	var modules []string
	err := s.db.Model(&models.Permission{}).
		Distinct("module").
		Order("module asc").
		Pluck("module", &modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

func (s *permissionStore) Delete(id uint) error {
	permission, err := s.FindByID(id)
	if err != nil {
		return err
	}
	return s.db.Delete(permission).Error
}
