package controllers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/middleware"
	"github.com/dariomolina/intranet-auth/models"
	"github.com/dariomolina/intranet-auth/store"
)

type UsersController struct {
	users    store.UserStore
	validate *validator.Validate
}

func NewUsersController(users store.UserStore) *UsersController {
	return &UsersController{
		users:    users,
		validate: validator.New(),
	}
}

// userDetail flattens a user into the public shape: role as a name (null
// when unassigned), permissions as a name list, no credential material.
func userDetail(u *models.User) fiber.Map {
	var role interface{}
	if u.Role != nil {
		role = u.Role.Name
	}
	return fiber.Map{
		"id":               u.ID,
		"email":            u.Email,
		"name":             u.Name,
		"last_name":        u.LastName,
		"cedula":           u.Cedula,
		"birth_date":       u.BirthDate,
		"phone":            u.Phone,
		"position":         u.Position,
		"profile_complete": u.ProfileComplete,
		"role":             role,
		"permissions":      u.PermissionNames(),
		"created_at":       u.CreatedAt,
		"updated_at":       u.UpdatedAt,
	}
}

// List returns all users, newest first, with role and permissions loaded.
func (ctrl *UsersController) List(c *fiber.Ctx) error {
	users, err := ctrl.users.FindAll()
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// Get returns one user's public view.
func (ctrl *UsersController) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	user, err := ctrl.users.FindByID(id)
	if err != nil {
		return err
	}
	return c.JSON(userDetail(user))
}

// GetProfile returns the signed-in user's own view.
func (ctrl *UsersController) GetProfile(c *fiber.Ctx) error {
	snap := middleware.Principal(c)
	if snap == nil {
		return apperr.Unauthenticated("Not authenticated")
	}

	user, err := ctrl.users.FindByID(snap.UserID)
	if err != nil {
		return err
	}
	return c.JSON(userDetail(user))
}

// UpdateProfile updates the signed-in user's profile fields and
// recomputes the completeness flag.
func (ctrl *UsersController) UpdateProfile(c *fiber.Ctx) error {
	snap := middleware.Principal(c)
	if snap == nil {
		return apperr.Unauthenticated("Not authenticated")
	}

	var input struct {
		Name      string `json:"name"`
		LastName  string `json:"last_name"`
		Cedula    string `json:"cedula"`
		BirthDate string `json:"birth_date"`
		Phone     string `json:"phone"`
		Position  string `json:"position"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	user, err := ctrl.users.FindByID(snap.UserID)
	if err != nil {
		return err
	}

	user.Name = input.Name
	user.LastName = input.LastName
	user.Phone = input.Phone
	user.Position = input.Position
	if input.Cedula != "" {
		user.Cedula = &input.Cedula
	} else {
		user.Cedula = nil
	}
	if input.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", input.BirthDate)
		if err != nil {
			return apperr.BadRequest("Invalid birth_date, expected YYYY-MM-DD")
		}
		user.BirthDate = &birthDate
	} else {
		user.BirthDate = nil
	}
	user.ProfileComplete = user.HasCompleteProfile()

	if err := ctrl.users.Save(user); err != nil {
		if apperr.IsConflict(err) {
			return apperr.Conflict("This cedula is already registered by another user")
		}
		return err
	}
	return c.JSON(userDetail(user))
}

// AdminUpdate lets user managers edit any account, including its role
// assignment. Only fields present in the body change.
func (ctrl *UsersController) AdminUpdate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var input struct {
		Name            *string `json:"name"`
		LastName        *string `json:"last_name"`
		Cedula          *string `json:"cedula"`
		BirthDate       *string `json:"birth_date"`
		Phone           *string `json:"phone"`
		Position        *string `json:"position"`
		RoleID          *uint   `json:"role_id"`
		ProfileComplete *bool   `json:"profile_complete"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	user, err := ctrl.users.FindByID(id)
	if err != nil {
		return err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Cedula != nil {
		user.Cedula = input.Cedula
	}
	if input.BirthDate != nil {
		birthDate, err := time.Parse("2006-01-02", *input.BirthDate)
		if err != nil {
			return apperr.BadRequest("Invalid birth_date, expected YYYY-MM-DD")
		}
		user.BirthDate = &birthDate
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Position != nil {
		user.Position = *input.Position
	}
	if input.RoleID != nil {
		user.RoleID = input.RoleID
	}
	if input.ProfileComplete != nil {
		user.ProfileComplete = *input.ProfileComplete
	}

	if err := ctrl.users.Save(user); err != nil {
		if apperr.IsConflict(err) {
			return apperr.Conflict("This cedula is already registered by another user")
		}
		return err
	}

	updated, err := ctrl.users.FindByID(id)
	if err != nil {
		return err
	}
	return c.JSON(userDetail(updated))
}

// Delete removes a user account.
func (ctrl *UsersController) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctrl.users.Delete(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
