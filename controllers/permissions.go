package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dariomolina/intranet-auth/models"
	"github.com/dariomolina/intranet-auth/store"
)

type PermissionsController struct {
	permissions store.PermissionStore
	validate    *validator.Validate
}

func NewPermissionsController(permissions store.PermissionStore) *PermissionsController {
	return &PermissionsController{
		permissions: permissions,
		validate:    validator.New(),
	}
}

// List returns the whole catalog ordered by module, then action.
func (ctrl *PermissionsController) List(c *fiber.Ctx) error {
	permissions, err := ctrl.permissions.FindAll()
	if err != nil {
		return err
	}
	return c.JSON(permissions)
}

// Modules returns the distinct module names.
func (ctrl *PermissionsController) Modules(c *fiber.Ctx) error {
	modules, err := ctrl.permissions.Modules()
	if err != nil {
		return err
	}
	return c.JSON(modules)
}

// ByModule returns one module's permissions ordered by action.
func (ctrl *PermissionsController) ByModule(c *fiber.Ctx) error {
	permissions, err := ctrl.permissions.FindByModule(c.Params("module"))
	if err != nil {
		return err
	}
	return c.JSON(permissions)
}

// Create adds a permission to the catalog.
func (ctrl *PermissionsController) Create(c *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name" validate:"required"`
		Module      string `json:"module" validate:"required"`
		Action      string `json:"action" validate:"required"`
		Description string `json:"description"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	permission := models.Permission{
		Name:        input.Name,
		Module:      input.Module,
		Action:      input.Action,
		Description: input.Description,
	}
	if err := ctrl.permissions.Create(&permission); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(permission)
}

// Delete removes a permission. Role links referencing it must be removed
// first through role updates.
func (ctrl *PermissionsController) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctrl.permissions.Delete(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Permission deleted successfully"})
}
