// Package controllers holds the Fiber handlers. Each controller is a
// struct built once at startup with its dependencies; handlers return
// apperr values and let the app's error handler shape the response.
package controllers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dariomolina/intranet-auth/apperr"
)

// parseBody decodes the JSON body into dst and runs validation tags.
func parseBody(c *fiber.Ctx, validate *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.BadRequest("Cannot parse JSON")
	}
	if err := validate.Struct(dst); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return apperr.BadRequest("Invalid field: " + fieldErrs[0].Field())
		}
		return apperr.BadRequest("Validation failed")
	}
	return nil
}

// idParam reads a numeric route parameter.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	raw, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("Invalid " + name)
	}
	return uint(raw), nil
}
