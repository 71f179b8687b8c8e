package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dariomolina/intranet-auth/controllers"
	"github.com/dariomolina/intranet-auth/middleware"
)

// SetupAuthRoutes configures all authentication related routes.
func SetupAuthRoutes(app *fiber.App, ctrl *controllers.AuthController, jwtSecret string) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", ctrl.Register)
	auth.Post("/login", ctrl.Login)
	auth.Post("/google", ctrl.Google)
	auth.Post("/refresh", ctrl.Refresh)
	auth.Post("/forgot-password", ctrl.ForgotPassword)
	auth.Post("/reset-password", ctrl.ResetPassword)

	// Protected routes
	auth.Get("/me", middleware.Protected(jwtSecret), ctrl.Me)
	auth.Post("/logout", middleware.Protected(jwtSecret), ctrl.Logout)
}
