package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dariomolina/intranet-auth/store"
)

type RolesController struct {
	roles    store.RoleStore
	validate *validator.Validate
}

func NewRolesController(roles store.RoleStore) *RolesController {
	return &RolesController{
		roles:    roles,
		validate: validator.New(),
	}
}

// List returns all roles with permissions and assigned-user counts.
func (ctrl *RolesController) List(c *fiber.Ctx) error {
	roles, err := ctrl.roles.FindAll()
	if err != nil {
		return err
	}
	return c.JSON(roles)
}

// Get returns one role.
func (ctrl *RolesController) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	role, err := ctrl.roles.FindByID(id)
	if err != nil {
		return err
	}
	return c.JSON(role)
}

// Create adds a role, optionally with an initial permission set.
func (ctrl *RolesController) Create(c *fiber.Ctx) error {
	var input struct {
		Name          string `json:"name" validate:"required"`
		Description   string `json:"description"`
		PermissionIDs []uint `json:"permission_ids"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	role, err := ctrl.roles.Create(store.CreateRoleInput{
		Name:          input.Name,
		Description:   input.Description,
		PermissionIDs: input.PermissionIDs,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

// Update edits a role. Omitting permission_ids keeps the current links;
// sending it (even empty) replaces the whole set.
func (ctrl *RolesController) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var input struct {
		Name          *string `json:"name"`
		Description   *string `json:"description"`
		PermissionIDs []uint  `json:"permission_ids"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	role, err := ctrl.roles.Update(id, store.UpdateRoleInput{
		Name:          input.Name,
		Description:   input.Description,
		PermissionIDs: input.PermissionIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(role)
}

// Delete removes a role. Users assigned to it are left roleless.
func (ctrl *RolesController) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctrl.roles.Delete(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Role deleted successfully"})
}

// Assign sets a user's role.
func (ctrl *RolesController) Assign(c *fiber.Ctx) error {
	var input struct {
		UserID uint `json:"user_id" validate:"required"`
		RoleID uint `json:"role_id" validate:"required"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	user, err := ctrl.roles.AssignToUser(input.UserID, input.RoleID)
	if err != nil {
		return err
	}
	return c.JSON(userDetail(user))
}

// RemoveFromUser clears a user's role without touching the user.
func (ctrl *RolesController) RemoveFromUser(c *fiber.Ctx) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}

	user, err := ctrl.roles.RemoveFromUser(userID)
	if err != nil {
		return err
	}
	return c.JSON(userDetail(user))
}
