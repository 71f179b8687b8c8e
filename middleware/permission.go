package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dariomolina/intranet-auth/rbac"
)

// RequirePermissions gates a route on the user holding every named
// permission, checked against current store state by the engine.
func RequirePermissions(engine *rbac.Engine, permissions ...string) fiber.Handler {
	req := rbac.Requirement{Permissions: permissions}
	return func(c *fiber.Ctx) error {
		if err := engine.Decide(Principal(c), req.Permissions); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireRoles gates a route on the token snapshot's role being one of
// the named roles. No database round trip.
func RequireRoles(roles ...string) fiber.Handler {
	req := rbac.Requirement{Roles: roles}
	return func(c *fiber.Ctx) error {
		if err := rbac.CheckRoles(Principal(c), req.Roles); err != nil {
			return err
		}
		return c.Next()
	}
}
