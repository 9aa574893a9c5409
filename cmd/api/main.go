package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/api/handlers"
	rediscache "github.com/samvaad/backend/internal/cache/redis"
	"github.com/samvaad/backend/internal/classifier"
	"github.com/samvaad/backend/internal/drafts"
	"github.com/samvaad/backend/internal/keywords"
	"github.com/samvaad/backend/internal/metrics"
	"github.com/samvaad/backend/internal/middleware/ratelimit"
	"github.com/samvaad/backend/internal/middleware/security"
	"github.com/samvaad/backend/internal/middleware/validation"
	"github.com/samvaad/backend/internal/reviews"
	"github.com/samvaad/backend/internal/sentiment"
	"github.com/samvaad/backend/internal/storage/sqlite"
	"github.com/samvaad/backend/internal/upload"
	"github.com/samvaad/backend/pkg/config"
	appLogger "github.com/samvaad/backend/pkg/logger"
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

	appLogger.Info("Starting Samvaad feedback API server")

	metrics.Init()

	store, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite store", zap.Error(err))
	}
	defer store.Close()

	err = store.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var keywordCache keywords.Cache
	if cfg.Redis.Enabled {
		redisClient, err := rediscache.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, keyword caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			keywordCache = redisClient
		}
	}

	classifierClient := classifier.NewClient(
		cfg.Classifier.BaseURL,
		time.Duration(cfg.Classifier.TimeoutSec)*time.Second,
	)
	keywordClient := keywords.NewClient(
		cfg.Keywords.BaseURL,
		time.Duration(cfg.Keywords.TimeoutSec)*time.Second,
	)

	draftStore := drafts.NewStore(store)
	ledger := reviews.NewLedger(store)
	sentiments := sentiment.NewService(ledger, store)
	coordinator := upload.NewCoordinator(ledger, store, classifierClient)
	keywordQuery := keywords.NewQuery(
		ledger,
		keywordClient,
		keywordCache,
		time.Duration(cfg.Keywords.CacheTTLSec)*time.Second,
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware(validation.Config{Logger: appLogger.GetLogger()}))

	draftHandler := handlers.NewDraftHandler(draftStore)
	reviewHandler := handlers.NewReviewHandler(coordinator, ledger, sentiments, classifierClient)
	keywordHandler := handlers.NewKeywordHandler(keywordQuery)

	api := app.Group("/api/v1")

	api.Post("/drafts", draftHandler.CreateDraft)
	api.Get("/drafts", draftHandler.ListDrafts)
	api.Get("/drafts/:id", draftHandler.GetDraft)

	api.Post("/drafts/:id/reviews", reviewHandler.UploadReviews)
	api.Get("/drafts/:id/reviews", reviewHandler.ListReviews)
	api.Get("/drafts/:id/summary", reviewHandler.GetSummary)
	api.Get("/drafts/:id/trend", reviewHandler.GetTrend)
	api.Get("/drafts/:id/keywords/:sentiment", keywordHandler.GetKeywords)

	api.Get("/reviews/detail/:filename", reviewHandler.GetReviewDetail)

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
