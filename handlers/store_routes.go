// handlers/store_routes.go
package handlers

import (
	"trilha-do-cristo/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStoreRoutes(app *fiber.App, storeService *services.StoreService) {
	store := app.Group("/store")

	store.Get("/products", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"products":   storeService.Products(c.Query("category")),
			"categories": storeService.Categories(),
		})
	})

	store.Get("/products/:slug", func(c *fiber.Ctx) error {
		product, err := storeService.Product(c.Params("slug"))
		if err != nil {
			return respondError(c, "product not found", err)
		}
		return c.JSON(product)
	})
}
