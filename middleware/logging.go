package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/dariomolina/intranet-auth/apperr"
)

// RequestLogger logs one line per completed request, tagged with the
// request id set by the requestid middleware.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// The app error handler has not run yet, so derive the status
		// from the error instead of the response.
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var apiErr *apperr.Error
			var fiberErr *fiber.Error
			switch {
			case errors.As(err, &apiErr):
				status = apiErr.Status
			case errors.As(err, &fiberErr):
				status = fiberErr.Code
			}
		}

		logger.Info("request",
			"request_id", c.Locals(requestid.ConfigDefault.ContextKey),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start).String(),
			"ip", c.IP(),
		)
		return err
	}
}
