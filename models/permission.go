package models

import (
	"time"
)

// Permission is an atomic named capability. Name follows the
// "module:action" convention, e.g. "users:manage".
type Permission struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"unique"`
	Module      string    `json:"module"` // e.g. "users", "tickets"
	Action      string    `json:"action"` // e.g. "view", "manage"
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Roles       []Role    `json:"roles,omitempty" gorm:"many2many:role_permissions;"`
}
