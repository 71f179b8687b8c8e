package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dariomolina/intranet-auth/controllers"
	"github.com/dariomolina/intranet-auth/middleware"
	"github.com/dariomolina/intranet-auth/rbac"
)

// SetupUserRoutes configures user administration and self-profile routes.
func SetupUserRoutes(app *fiber.App, ctrl *controllers.UsersController, engine *rbac.Engine, jwtSecret string) {
	users := app.Group("/users", middleware.Protected(jwtSecret))

	// Self-service, no extra permission beyond a valid session
	users.Get("/profile", ctrl.GetProfile)
	users.Put("/profile", ctrl.UpdateProfile)

	users.Get("/", middleware.RequirePermissions(engine, "users:view"), ctrl.List)
	users.Get("/:id", middleware.RequirePermissions(engine, "users:view"), ctrl.Get)
	users.Put("/:id", middleware.RequirePermissions(engine, "users:manage"), ctrl.AdminUpdate)
	users.Delete("/:id", middleware.RequirePermissions(engine, "users:manage"), ctrl.Delete)
}
