package models

import (
	"time"
)

// Role groups permissions under a name. A user holds at most one role.
// RoleAdmin is a sentinel: the authorization engine lets its holders
// through without consulting the permission links at all.
const (
	RoleAdmin    = "admin"
	RoleEmpleado = "empleado"
)

type Role struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"unique"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
	UserCount   int64        `json:"user_count" gorm:"-"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PermissionNames flattens the loaded permission set to its names.
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}
