package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	applog "storefront/internal/log"
	"storefront/internal/repos"
)

type HealthHandler struct {
	DB *sqlx.DB
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := repos.Ping(c.UserContext(), h.DB); err != nil {
		applog.Error(c, "health.db.down", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false, "db": "down"})
	}
	return c.JSON(fiber.Map{"ok": true, "db": "up"})
}
