package handlers

import (
	"geoportal/internal/app"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler answers ok only when both backing stores respond.
func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := app.Database.SQL.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Context())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"status": "degraded", "database": "down"})
		}

		if cache := app.Database.Cache.General; cache != nil {
			if err := cache.Do(c.Context(), cache.B().Ping().Build()).Error(); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).
					JSON(fiber.Map{"status": "degraded", "cache": "down"})
			}
		}

		return c.JSON(fiber.Map{"status": "ok"})
	})
}
