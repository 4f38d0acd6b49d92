package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

const Version = "1.0.0"

type HealthHandler struct {
	DB *sqlx.DB
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to the Tickoff API",
		"version": Version,
	})
}

// Health reports liveness plus a database ping.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.DB.PingContext(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "timestamp": now})
	}
	return c.JSON(fiber.Map{"status": "healthy", "timestamp": now})
}
