package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trilha-do-cristo/config"
	"trilha-do-cristo/handlers"
	"trilha-do-cristo/middleware"
	"trilha-do-cristo/models"
	"trilha-do-cristo/services"
	"trilha-do-cristo/utils"
	"trilha-do-cristo/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := utils.OpenDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	// --- Object storage: R2 when configured, local disk otherwise ---
	var storage utils.ObjectStorage
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Storage(ctx, cfg.R2)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		storage = r2
		log.Printf("✅ Uploads go to R2 bucket %s", cfg.R2.Bucket)
	} else {
		local, err := utils.NewLocalStorage(cfg.UploadDir, "/uploads")
		if err != nil {
			log.Fatal(err)
		}
		storage = local
		log.Printf("⚠️  R2 not configured, storing uploads in %s", cfg.UploadDir)
	}

	// --- Extraction rate limit: Redis when configured ---
	var limiter services.RateLimiter
	if cfg.RedisAddr != "" {
		rdb, err := services.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal(err)
		}
		defer rdb.Close()
		limiter = services.NewRedisRateLimiter(rdb, "trilha:extract:", cfg.ExtractionLimit, cfg.ExtractionWindow)
	} else {
		limiter = services.NewMemoryRateLimiter(cfg.ExtractionLimit, cfg.ExtractionWindow)
	}

	var extractor services.HikeExtractor
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal(err)
		}
		extractor = gemini
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, screenshot extraction disabled")
	}

	var verifier services.TokenVerifier
	switch cfg.AuthMode() {
	case "jwt":
		verifier = services.NewJWTVerifier(cfg.SupabaseJWTSecret)
	case "remote":
		verifier = services.NewSupabaseAuthClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	default:
		log.Fatal("SUPABASE_JWT_SECRET or SUPABASE_URL + SUPABASE_ANON_KEY must be set")
	}

	hikeStore := services.NewGormHikeStore(db)
	gamificationService := services.NewGamificationService(hikeStore, services.NewGormGamificationStore(db))
	hikeService := services.NewHikeService(hikeStore, gamificationService)
	screenshotService := services.NewScreenshotService(storage, extractor, limiter, hikeService)
	rankingService := services.NewRankingService(db)
	storeService, err := services.NewStoreService(models.ProductCatalogYAML)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimit,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	auth := middleware.UserAuth(verifier)
	admin := middleware.ServiceTokenAuth(cfg.ServiceToken)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	handlers.SetupHikeRoutes(app, auth, hikeService, screenshotService)
	handlers.SetupGamificationRoutes(app, auth, gamificationService)
	handlers.SetupRankingRoutes(app, admin, rankingService)
	handlers.SetupStoreRoutes(app, storeService)
	handlers.SetupStaticRoutes(app, cfg.UploadDir, cfg.PublicDir)

	sched, err := rankingService.StartRankingScheduler(cfg.RankingRefreshInterval)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = sched.Shutdown() }()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.SupabaseURL != "" && cfg.SupabaseServiceRoleKey != "" {
		source := workers.NewSupabaseProfileSource(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)
		syncWorker := workers.NewProfileSyncWorker(db, source, cfg.ProfileSyncInterval)
		g.Go(func() error { return syncWorker.Run(gctx) })
	} else {
		log.Println("⚠️  SUPABASE_SERVICE_ROLE_KEY not set, profile sync disabled")
	}

	g.Go(func() error {
		log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Server error: %v", err)
	}
}
