package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "tickoff/internal/log"
	"tickoff/internal/services"
)

const genericFailure = "Something went wrong. Please try again."

func fail(c *fiber.Ctx, status int, code, msg string) error {
	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": code, "message": msg},
	})
}

// writeError maps service errors onto the HTTP surface. Anything it does not
// recognise is logged and reported as a bare 500.
func writeError(c *fiber.Ctx, action string, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return fail(c, fiber.StatusBadRequest, "validation_error", ve.Msg)
	case errors.Is(err, services.ErrConflict):
		return fail(c, fiber.StatusConflict, "conflict", "Email already registered")
	case errors.Is(err, services.ErrUnauthenticated):
		return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Could not validate credentials")
	case errors.Is(err, services.ErrNotFound):
		if errors.Is(err, services.ErrNotOwner) {
			applog.Security(c, action+".denied", nil)
		}
		return fail(c, fiber.StatusNotFound, "not_found", "Todo not found")
	}
	applog.Error(c, action+".fail", err, nil)
	return fail(c, fiber.StatusInternalServerError, "internal_error", genericFailure)
}

// ErrorHandler is the app-wide fallback for errors that escape handlers,
// including recovered panics and framework errors such as unknown routes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return fail(c, fe.Code, "request_error", fe.Message)
	}
	applog.Error(c, "server.error", err, nil)
	return fail(c, fiber.StatusInternalServerError, "internal_error", genericFailure)
}

func badBody(c *fiber.Ctx) error {
	applog.Security(c, "validation.fail", map[string]any{"reason": "body"})
	return fail(c, fiber.StatusBadRequest, "validation_error", "invalid request body")
}
