package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/dariomolina/intranet-auth/token"
)

const principalKey = "principal"

// Protected verifies the bearer token and stores the decoded principal
// snapshot in the request locals. Invalid and expired tokens get the same
// response.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			userToken, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return jwtError(c, nil)
			}
			claims, ok := userToken.Claims.(jwt.MapClaims)
			if !ok {
				return jwtError(c, nil)
			}

			snap, err := token.SnapshotFromClaims(claims)
			if err != nil {
				return jwtError(c, err)
			}

			c.Locals(principalKey, snap)
			return c.Next()
		},
	})
}

// Principal returns the snapshot set by Protected, or nil on routes that
// skipped it.
func Principal(c *fiber.Ctx) *token.Snapshot {
	snap, _ := c.Locals(principalKey).(*token.Snapshot)
	return snap
}

func jwtError(c *fiber.Ctx, _ error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid or expired token",
	})
}
