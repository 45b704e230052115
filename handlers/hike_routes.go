// handlers/hike_routes.go
package handlers

import (
	"errors"
	"io"
	"log"

	"trilha-do-cristo/middleware"
	"trilha-do-cristo/models"
	"trilha-do-cristo/services"

	"github.com/gofiber/fiber/v2"
)

func SetupHikeRoutes(app *fiber.App, auth fiber.Handler, hikeService *services.HikeService, screenshotService *services.ScreenshotService) {
	secured := app.Group("/hikes", auth)

	secured.Post("/", func(c *fiber.Ctx) error {
		var req services.CreateHikeRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}
		if err := hikeService.Validate(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "invalid hike",
				"cause":  err.Error(),
				"fields": services.ValidationMessages(err),
			})
		}

		source := models.HikeSourceManual
		if c.Query("source") == models.HikeSourceScreenshot {
			source = models.HikeSourceScreenshot
		}

		hike, state, err := hikeService.Create(c.UserContext(), middleware.UserID(c), source, req)
		if errors.Is(err, services.ErrProgressRefresh) {
			log.Printf("⚠️ [HIKES] %v", err)
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"hike": hike})
		}
		if err != nil {
			return respondError(c, "failed to save hike", err)
		}
		log.Printf("🥾 [HIKES] %s registered %q (%s km in %s, %s)", hikerLabel(c), hike.Name, hike.Distance, hike.Duration, source)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"hike":         hike,
			"gamification": newGamificationView(state),
		})
	})

	secured.Get("/", func(c *fiber.Ctx) error {
		hikes, err := hikeService.List(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, "failed to load hikes", err)
		}
		return c.JSON(fiber.Map{"hikes": hikes})
	})

	secured.Get("/summary", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		summary, err := hikeService.Summary(c.UserContext(), userID)
		if err != nil {
			return respondError(c, "failed to summarise hikes", err)
		}
		state, err := hikeService.Gamification.Refresh(c.UserContext(), userID)
		if err != nil {
			return respondError(c, "failed to refresh gamification", err)
		}
		return c.JSON(fiber.Map{
			"summary":      summary,
			"gamification": services.Summarize(state),
		})
	})

	secured.Post("/screenshot", func(c *fiber.Ctx) error {
		body, contentType, err := readImage(c, "screenshot")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "screenshot file is required",
				"cause": err.Error(),
			})
		}
		draft, err := screenshotService.Extract(c.UserContext(), middleware.UserID(c), body, contentType)
		if err != nil {
			return respondError(c, "failed to read screenshot", err)
		}
		return c.JSON(draft)
	})

	app.Post("/uploads/image", auth, func(c *fiber.Ctx) error {
		body, contentType, err := readImage(c, "image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "image file is required",
				"cause": err.Error(),
			})
		}
		url, _, err := screenshotService.UploadImage(c.UserContext(), "images", middleware.UserID(c), body, contentType)
		if err != nil {
			return respondError(c, "failed to upload image", err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
	})
}

func hikerLabel(c *fiber.Ctx) string {
	if name := middleware.UserName(c); name != "" {
		return name
	}
	return middleware.UserID(c)
}

// readImage reads a multipart file field, capped one byte past the upload
// limit so oversize files are still detected.
func readImage(c *fiber.Ctx, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, services.MaxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	return body, fh.Header.Get(fiber.HeaderContentType), nil
}
