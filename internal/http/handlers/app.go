package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "storefront/internal/log"
)

const maxBodySize = 1 << 20 // 1 MiB

type AppOptions struct {
	// RateLimitMax caps requests per client IP per minute; 0 disables the limiter.
	RateLimitMax int
	// AccessLog turns on fiber's request logger.
	AccessLog bool
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(deps *Deps, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		BodyLimit:    maxBodySize,
		UnescapePath: true,
		ErrorHandler: ErrorHandler,
	})

	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	app.Use(deps.Metrics.Middleware())
	if opts.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimitMax,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				p := c.Path()
				return p == "/healthz" || strings.HasPrefix(p, "/metrics")
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.limit.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{Error: "rate limit exceeded, retry soon"})
			},
		}))
	}

	app.Post("/products", deps.ProductHandler.Create)
	app.Get("/products", deps.ProductHandler.List)
	app.Post("/orders", deps.OrderHandler.Create)
	app.Get("/orders/:userId", deps.OrderHandler.ListByUser)

	app.Get("/healthz", deps.HealthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Not Found"})
	})
	return app
}
