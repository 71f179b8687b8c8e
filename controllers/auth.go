package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/auth"
	"github.com/dariomolina/intranet-auth/middleware"
	"github.com/dariomolina/intranet-auth/ratelimit"
)

type AuthController struct {
	service  *auth.Service
	limiter  *ratelimit.LoginLimiter
	validate *validator.Validate
}

func NewAuthController(service *auth.Service, limiter *ratelimit.LoginLimiter) *AuthController {
	return &AuthController{
		service:  service,
		limiter:  limiter,
		validate: validator.New(),
	}
}

// Register creates a password account and signs it in.
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Name     string `json:"name" validate:"required"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	resp, err := ctrl.service.Register(input.Email, input.Password, input.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login authenticates email+password. Unknown email and wrong password
// get the same response.
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	if !ctrl.limiter.Allow(c.Context(), input.Email, c.IP()) {
		return apperr.TooManyRequests("Too many login attempts, try again later")
	}

	user, err := ctrl.service.ValidateByPassword(input.Email, input.Password)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.Unauthenticated("Invalid credentials")
	}
	ctrl.limiter.Reset(c.Context(), input.Email, c.IP())

	resp, err := ctrl.service.Login(user)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Google signs in a federated identity already verified upstream.
func (ctrl *AuthController) Google(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Name     string `json:"name"`
		GoogleID string `json:"googleId" validate:"required"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	resp, err := ctrl.service.GoogleLogin(input.Email, input.Name, input.GoogleID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Refresh mints a new access token from a valid refresh token.
func (ctrl *AuthController) Refresh(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	accessToken, err := ctrl.service.Refresh(input.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": accessToken})
}

// Me returns the signed-in user's public view.
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	snap := middleware.Principal(c)
	if snap == nil {
		return apperr.Unauthenticated("Not authenticated")
	}

	user, err := ctrl.service.Me(snap.UserID)
	if err != nil {
		return err
	}
	return c.JSON(userDetail(user))
}

// Logout is a no-op server side; tokens are stateless and expire on their
// own.
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}

// ForgotPassword starts the recovery flow.
func (ctrl *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	if err := ctrl.service.RequestReset(input.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Recovery email sent successfully"})
}

// ResetPassword redeems a recovery token.
func (ctrl *AuthController) ResetPassword(c *fiber.Ctx) error {
	var input struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}
	if err := parseBody(c, ctrl.validate, &input); err != nil {
		return err
	}

	if err := ctrl.service.RedeemReset(input.Token, input.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}
