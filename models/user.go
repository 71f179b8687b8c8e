package models

import (
	"time"
)

// User is an authenticated principal. Password is nil for accounts that
// only ever signed in through Google. The role reference is the sole
// authorization input; permissions are never attached to a user directly.
type User struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Email           string     `json:"email" gorm:"unique"`
	Password        *string    `json:"-"`
	GoogleID        *string    `json:"google_id,omitempty"`
	Name            string     `json:"name"`
	LastName        string     `json:"last_name"`
	Cedula          *string    `json:"cedula,omitempty" gorm:"unique"`
	BirthDate       *time.Time `json:"birth_date,omitempty"`
	Phone           string     `json:"phone"`
	Position        string     `json:"position"`
	ProfileComplete bool       `json:"profile_complete"`
	RoleID          *uint      `json:"role_id"`
	Role            *Role      `json:"role,omitempty" gorm:"foreignKey:RoleID"`

	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleName returns the role name, or "" when no role is assigned.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// PermissionNames returns the names of the loaded role's permissions,
// empty for roleless users.
func (u *User) PermissionNames() []string {
	if u.Role == nil {
		return []string{}
	}
	return u.Role.PermissionNames()
}

// HasCompleteProfile reports whether every required profile field is
// filled in. Stored in ProfileComplete whenever the profile is updated.
func (u *User) HasCompleteProfile() bool {
	return u.Name != "" &&
		u.LastName != "" &&
		u.Cedula != nil && *u.Cedula != "" &&
		u.BirthDate != nil &&
		u.Phone != "" &&
		u.Position != ""
}
