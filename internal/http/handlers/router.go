package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type Options struct {
	CORSOrigins string
	// AccessLog enables the fiber request logger; tests usually leave it off.
	AccessLog bool
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(d *Deps, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "tickoff",
		BodyLimit:    maxBodyBytes,
		ErrorHandler: ErrorHandler,
	})

	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(opts.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	if d.Metrics != nil {
		app.Use(d.Metrics.Middleware())
		app.Get("/metrics", d.Metrics.Handler())
	}

	app.Get("/", d.HealthHandler.Root)
	app.Get("/health", d.HealthHandler.Health)

	requireUser := RequireUser(d.Auth, d.Metrics)

	api := app.Group("/api")
	auth := api.Group("/auth")
	auth.Post("/register", d.AuthHandler.Register)
	auth.Post("/login", d.AuthHandler.Login)
	auth.Post("/logout", d.AuthHandler.Logout)
	auth.Get("/me", requireUser, d.AuthHandler.Me)

	todos := api.Group("/todos", requireUser)
	todos.Get("/", d.TodoHandler.List)
	todos.Post("/", d.TodoHandler.Create)
	todos.Put("/:id", d.TodoHandler.Update)
	todos.Delete("/:id", d.TodoHandler.Delete)
	todos.Patch("/:id/toggle-complete", d.TodoHandler.ToggleComplete)

	app.Use(func(c *fiber.Ctx) error {
		return fail(c, fiber.StatusNotFound, "not_found", "Route not found")
	})
	return app
}

func corsOrigins(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "*"
	}
	return s
}
