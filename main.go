package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"vendor-match-system/handlers"
	"vendor-match-system/models"
	"vendor-match-system/services"
	"vendor-match-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Client{},
		&models.Project{},
		&models.Vendor{},
		&models.Match{},
		&models.ResearchDocument{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Object storage for research attachments (optional)
	storage, err := utils.NewObjectStorageFromEnv()
	if err != nil {
		log.Fatal("failed to initialize object storage:", err)
	}
	if storage == nil {
		log.Println("⚠️  R2 not configured — research file attachments disabled")
	}

	// Analytics cache (optional)
	var cache services.Cache = services.NoopCache{}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB := 0
		if v := os.Getenv("REDIS_DB"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				redisDB = parsed
			}
		}
		cache = services.NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), redisDB)
		log.Printf("✅ Redis cache enabled (%s)", addr)
	}

	notifier := services.NewEmailNotifierFromEnv()

	projectStore := services.NewGormProjectStore(db)
	vendorStore := services.NewGormVendorStore(db)
	matchStore := services.NewGormMatchStore(db)

	matchingService := services.NewMatchingService(projectStore, vendorStore, matchStore, notifier)
	authService := services.NewAuthService(db, jwtSecret)
	projectService := services.NewProjectService(db, matchingService)
	vendorService := services.NewVendorService(db)
	researchService := services.NewResearchService(db, storage)
	analyticsService := services.NewAnalyticsService(db, researchService, cache)

	scheduler, err := services.NewScheduler(matchingService, projectStore, vendorStore, notifier)
	if err != nil {
		log.Fatal("failed to create scheduler:", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal("failed to start scheduler:", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // 50MB for research attachments
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	api := app.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "vendor-match-system",
			"status":  "running",
		})
	})
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handlers.SetupAuthRoutes(api, authService)
	handlers.SetupProjectRoutes(api, projectService, jwtSecret)
	handlers.SetupVendorRoutes(api, vendorService, jwtSecret)
	handlers.SetupResearchRoutes(api, researchService, jwtSecret)
	handlers.SetupAnalyticsRoutes(api, analyticsService, jwtSecret)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := scheduler.Stop(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
