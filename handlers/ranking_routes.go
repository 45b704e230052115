// handlers/ranking_routes.go
package handlers

import (
	"trilha-do-cristo/services"

	"github.com/gofiber/fiber/v2"
)

const maxRankingLimit = 100

func SetupRankingRoutes(app *fiber.App, admin fiber.Handler, rankingService *services.RankingService) {
	// 🔓 Public
	app.Get("/ranking", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		if limit <= 0 || limit > maxRankingLimit {
			limit = maxRankingLimit
		}
		entries, stats, err := rankingService.Top(c.UserContext(), limit)
		if err != nil {
			return respondError(c, "failed to load ranking", err)
		}
		return c.JSON(fiber.Map{
			"entries": entries,
			"stats":   stats,
		})
	})

	// 🔐 Operator
	app.Post("/admin/ranking/refresh", admin, func(c *fiber.Ctx) error {
		stats, err := rankingService.Refresh(c.UserContext())
		if err != nil {
			return respondError(c, "failed to refresh ranking", err)
		}
		return c.JSON(fiber.Map{"stats": stats})
	})
}
