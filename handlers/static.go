// handlers/static.go
package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

// SetupStaticRoutes serves local uploads and the built single-page app.
// Must be registered after the API routes.
func SetupStaticRoutes(app *fiber.App, uploadDir, publicDir string) {
	app.Static("/uploads", uploadDir)

	if _, err := os.Stat(publicDir); err != nil {
		log.Printf("⚠️ [STATIC] %s not found, frontend will not be served", publicDir)
		return
	}

	app.Use("/", filesystem.New(filesystem.Config{
		Root:         http.Dir(publicDir),
		Index:        "index.html",
		MaxAge:       3600,
		NotFoundFile: "index.html",
	}))
}
