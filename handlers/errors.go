// handlers/errors.go
package handlers

import (
	"errors"

	"trilha-do-cristo/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// respondError maps service errors onto the {"error","cause"} body.
func respondError(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnsupportedImage):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrRateLimited):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrExtractorDisabled):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, services.ErrInvalidExtraction):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}
