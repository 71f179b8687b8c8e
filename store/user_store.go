package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/models"
)

type userStore struct {
	db *gorm.DB
}

// NewUserStore returns a gorm-backed UserStore.
func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

func (s *userStore) Create(u *models.User) error {
	if err := s.db.Omit(clause.Associations).Create(u).Error; err != nil {
		return translateDuplicate(err, apperr.Conflict("A user with this email already exists"))
	}
	return nil
}

// Save writes every column of u, so clearing pointer fields (reset token,
// role id) persists as NULL. Associations are never written through here.
func (s *userStore) Save(u *models.User) error {
	if err := s.db.Omit(clause.Associations).Save(u).Error; err != nil {
		return translateDuplicate(err, apperr.Conflict("A user with these details already exists"))
	}
	return nil
}

func (s *userStore) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role.Permissions").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *userStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Role.Permissions").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *userStore) FindByResetToken(token string) (*models.User, error) {
	var user models.User
	err := s.db.Where("reset_token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *userStore) FindAll() ([]models.User, error) {
	var users []models.User
	err := s.db.Preload("Role.Permissions").
		Order("created_at desc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userStore) Delete(id uint) error {
	var user models.User
	if s.db.First(&user, id).RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}
	return s.db.Delete(&user).Error
}

// ClearExpiredResetTokens nulls out reset tokens whose expiry has passed.
// Run periodically; redemption checks expiry itself, this is hygiene.
func (s *userStore) ClearExpiredResetTokens(now time.Time) (int64, error) {
	res := s.db.Model(&models.User{}).
		Where("reset_token IS NOT NULL AND reset_token_expiry < ?", now).
		Updates(map[string]interface{}{
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	return res.RowsAffected, res.Error
}
