package db

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dariomolina/intranet-auth/models"
)

// Default catalog and roles. Safe to run repeatedly: permissions and
// roles are upserted by name and role links are replaced with the sets
// below.
func Seed(gdb *gorm.DB, logger *slog.Logger) error {
	permissionsData := []models.Permission{
		{Name: "dashboard:view", Module: "dashboard", Action: "view", Description: "View main dashboard"},

		{Name: "users:view", Module: "users", Action: "view", Description: "View user list"},
		{Name: "users:manage", Module: "users", Action: "manage", Description: "Manage users (create, edit, delete)"},

		{Name: "stats:view", Module: "stats", Action: "view", Description: "View statistics"},

		{Name: "settings:view", Module: "settings", Action: "view", Description: "View settings"},
		{Name: "settings:edit", Module: "settings", Action: "edit", Description: "Edit settings"},

		{Name: "profile:view", Module: "profile", Action: "view", Description: "View own profile"},
		{Name: "profile:edit", Module: "profile", Action: "edit", Description: "Edit own profile"},

		{Name: "roles:view", Module: "roles", Action: "view", Description: "View roles"},
		{Name: "roles:manage", Module: "roles", Action: "manage", Description: "Manage roles and assignments"},
		{Name: "permissions:view", Module: "permissions", Action: "view", Description: "View permissions"},
		{Name: "permissions:manage", Module: "permissions", Action: "manage", Description: "Manage permissions"},

		{Name: "tickets:create", Module: "tickets", Action: "create", Description: "Create support tickets"},
		{Name: "tickets:manage", Module: "tickets", Action: "manage", Description: "Manage and answer tickets (staff)"},
	}

	byName := make(map[string]models.Permission, len(permissionsData))
	for _, perm := range permissionsData {
		var existing models.Permission
		err := gdb.Where("name = ?", perm.Name).First(&existing).Error
		if err == nil {
			existing.Module = perm.Module
			existing.Action = perm.Action
			existing.Description = perm.Description
			if err := gdb.Save(&existing).Error; err != nil {
				return err
			}
			byName[perm.Name] = existing
			continue
		}
		if err := gdb.Create(&perm).Error; err != nil {
			return err
		}
		byName[perm.Name] = perm
	}
	logger.Info("seeded permissions", "count", len(permissionsData))

	allNames := make([]string, 0, len(permissionsData))
	for _, perm := range permissionsData {
		allNames = append(allNames, perm.Name)
	}

	roles := []struct {
		name        string
		description string
		permissions []string
	}{
		{
			name:        models.RoleAdmin,
			description: "Administrator with full access",
			permissions: allNames,
		},
		{
			name:        models.RoleEmpleado,
			description: "Employee with basic access",
			permissions: []string{"dashboard:view", "profile:view", "profile:edit", "tickets:create"},
		},
		{
			name:        "supervisor",
			description: "Supervisor with intermediate access",
			permissions: []string{
				"dashboard:view", "profile:view", "profile:edit",
				"users:view", "stats:view", "settings:view",
				"tickets:create", "tickets:manage",
			},
		},
	}

	var empleadoRole models.Role
	for _, r := range roles {
		var role models.Role
		err := gdb.Where("name = ?", r.name).First(&role).Error
		if err != nil {
			role = models.Role{Name: r.name, Description: r.description}
			if err := gdb.Create(&role).Error; err != nil {
				return err
			}
		} else {
			role.Description = r.description
			if err := gdb.Save(&role).Error; err != nil {
				return err
			}
		}

		links := make([]models.Permission, 0, len(r.permissions))
		for _, name := range r.permissions {
			links = append(links, byName[name])
		}
		if err := gdb.Model(&role).Association("Permissions").Replace(links); err != nil {
			return err
		}
		logger.Info("seeded role", "name", r.name, "permissions", len(r.permissions))

		if r.name == models.RoleEmpleado {
			empleadoRole = role
		}
	}

	// Default admin account. The password is a bootstrap value meant to
	// be changed on first login.
	var admin models.User
	err := gdb.Where("email = ?", "admin@example.com").First(&admin).Error
	if err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hashed := string(hash)
		cedula := "admin"

		var adminRole models.Role
		if err := gdb.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
			return err
		}

		admin = models.User{
			Email:           "admin@example.com",
			Password:        &hashed,
			Name:            "System",
			LastName:        "Admin",
			Cedula:          &cedula,
			Position:        "Administrator",
			ProfileComplete: true,
			RoleID:          &adminRole.ID,
		}
		if err := gdb.Create(&admin).Error; err != nil {
			return err
		}
		logger.Info("seeded admin user", "email", admin.Email)
	}

	// Adopt accounts created before roles existed (e.g. via Google login
	// with no empleado role seeded yet).
	res := gdb.Model(&models.User{}).
		Where("role_id IS NULL").
		Update("role_id", empleadoRole.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logger.Info("assigned default role to roleless users", "count", res.RowsAffected)
	}

	return nil
}
