package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/ecolabel/backend/internal/analysis"
	"github.com/ecolabel/backend/internal/api/handlers"
	"github.com/ecolabel/backend/internal/cache/redis"
	"github.com/ecolabel/backend/internal/catalog"
	"github.com/ecolabel/backend/internal/extraction"
	"github.com/ecolabel/backend/internal/metrics"
	"github.com/ecolabel/backend/internal/middleware/ratelimit"
	"github.com/ecolabel/backend/internal/middleware/security"
	"github.com/ecolabel/backend/internal/middleware/validation"
	"github.com/ecolabel/backend/internal/ocr"
	"github.com/ecolabel/backend/internal/storage/sqlite"
	"github.com/ecolabel/backend/pkg/config"
	appLogger "github.com/ecolabel/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting EcoLabel Analyzer API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var resultCache analysis.ResultCache
	redisClient, err := redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Warn("Redis unavailable, analysis cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		resultCache = redisClient
	}

	loader := catalog.NewLoader(cfg.Catalog.Source, time.Duration(cfg.Catalog.TimeoutSec)*time.Second)
	extractor := extraction.NewExtractor()

	ocrTimeout := time.Duration(cfg.OCR.TimeoutSec) * time.Second
	tesseract := ocr.NewTesseract(cfg.OCR.TesseractLanguages, ocrTimeout)

	var cloudProviders []ocr.Provider
	if cfg.OCR.GoogleCredentialsFile != "" {
		google, err := ocr.NewGoogleVision(context.Background(), cfg.OCR.GoogleCredentialsFile, ocrTimeout)
		if err != nil {
			appLogger.Warn("Google Vision unavailable", zap.Error(err))
		} else {
			defer google.Close()
			cloudProviders = append(cloudProviders, google)
		}
	}
	if cfg.OCR.AzureEndpoint != "" && cfg.OCR.AzureAPIKey != "" {
		cloudProviders = append(cloudProviders, ocr.NewAzure(cfg.OCR.AzureEndpoint, cfg.OCR.AzureAPIKey, ocrTimeout))
	}

	orchestrator := ocr.NewOrchestrator(tesseract, cloudProviders...)

	engine := analysis.NewEngine(
		loader,
		extractor,
		orchestrator,
		sqliteClient,
		resultCache,
		time.Duration(cfg.Redis.TTLSec)*time.Second,
		cfg.OCR.PreferredProvider,
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	rateLimiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
	})
	defer rateLimiter.Stop()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(rateLimiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		MaxImageSize: cfg.Server.BodyLimit,
	}))

	analyzeHandler := handlers.NewAnalyzeHandler(engine)
	materialsHandler := handlers.NewMaterialsHandler(loader)
	historyHandler := handlers.NewHistoryHandler(sqliteClient)
	liveHandler := handlers.NewLiveHandler(engine)

	api := app.Group("/api/v1")

	api.Post("/analyze/image", analyzeHandler.HandleAnalyzeImage)
	api.Post("/analyze/text", analyzeHandler.HandleAnalyzeText)
	api.Post("/analyze/composition", analyzeHandler.HandleAnalyzeComposition)

	api.Get("/materials", materialsHandler.ListMaterials)
	api.Get("/materials/:id", materialsHandler.GetMaterial)
	api.Get("/certifications", materialsHandler.ListCertifications)

	api.Get("/history", historyHandler.ListHistory)
	api.Get("/history/:id", historyHandler.GetAnalysis)
	api.Post("/feedback", historyHandler.SubmitFeedback)
	api.Delete("/history", historyHandler.ClearHistory)

	api.Use("/analyze/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/analyze/live", websocket.New(liveHandler.HandleConnection))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
