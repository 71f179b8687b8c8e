package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dariomolina/intranet-auth/controllers"
	"github.com/dariomolina/intranet-auth/middleware"
	"github.com/dariomolina/intranet-auth/models"
	"github.com/dariomolina/intranet-auth/rbac"
)

// SetupRBACRoutes configures role and permission administration.
func SetupRBACRoutes(app *fiber.App, rolesCtrl *controllers.RolesController, permsCtrl *controllers.PermissionsController, engine *rbac.Engine, jwtSecret string) {
	roles := app.Group("/roles", middleware.Protected(jwtSecret))

	roles.Get("/", middleware.RequirePermissions(engine, "roles:view"), rolesCtrl.List)
	roles.Post("/", middleware.RequirePermissions(engine, "roles:manage"), rolesCtrl.Create)

	// Assignment only needs the coarse role check, not a permission fetch.
	roles.Post("/assign", middleware.RequireRoles(models.RoleAdmin), rolesCtrl.Assign)
	roles.Post("/remove-from-user/:userId", middleware.RequireRoles(models.RoleAdmin), rolesCtrl.RemoveFromUser)

	roles.Get("/:id", middleware.RequirePermissions(engine, "roles:view"), rolesCtrl.Get)
	roles.Put("/:id", middleware.RequirePermissions(engine, "roles:manage"), rolesCtrl.Update)
	roles.Delete("/:id", middleware.RequirePermissions(engine, "roles:manage"), rolesCtrl.Delete)

	permissions := app.Group("/permissions", middleware.Protected(jwtSecret))

	permissions.Get("/", middleware.RequirePermissions(engine, "permissions:view"), permsCtrl.List)
	permissions.Get("/modules", middleware.RequirePermissions(engine, "permissions:view"), permsCtrl.Modules)
	permissions.Get("/module/:module", middleware.RequirePermissions(engine, "permissions:view"), permsCtrl.ByModule)
	permissions.Post("/", middleware.RequirePermissions(engine, "permissions:manage"), permsCtrl.Create)
	permissions.Delete("/:id", middleware.RequirePermissions(engine, "permissions:manage"), permsCtrl.Delete)
}
