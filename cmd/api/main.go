package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"resume-screener/internal/config"
	"resume-screener/internal/handlers"
	"resume-screener/internal/repositories"
	"resume-screener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	// Repositories
	candidateRepo := repositories.NewCandidateRepository(db)
	balanceRepo := repositories.NewBalanceRepository(db)

	// Gemini classifier
	ctx := context.Background()
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
	if err != nil {
		logger.Fatal("failed to initialize gemini client", zap.Error(err))
	}

	// Optional AWS pieces: skip when unconfigured so the pipeline still runs
	var store services.ObjectStore
	if cfg.AWS.Bucket != "" {
		store, err = services.NewS3Store(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize s3 store", zap.Error(err))
		}
	} else {
		logger.Warn("S3_BUCKET_NAME not set, resume archiving disabled")
	}

	var mailer services.Mailer
	if cfg.Mail.Sender != "" {
		mailer, err = services.NewSESMailer(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to initialize ses mailer", zap.Error(err))
		}
	} else {
		logger.Warn("MAIL_SENDER not set, email delivery disabled")
	}

	// Optional candidate search index
	var index services.CandidateIndex
	if cfg.Qdrant.URL != "" {
		index, err = services.NewCandidateIndex(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			geminiService,
			logger,
		)
		if err != nil {
			logger.Fatal("failed to initialize candidate index", zap.Error(err))
		}
		if err := index.EnsureCollection(ctx); err != nil {
			logger.Fatal("failed to initialize qdrant collection", zap.Error(err))
		}
	} else {
		logger.Warn("QDRANT_URL not set, candidate search disabled")
	}

	// Core services
	extractor := services.NewExtractorService(geminiService, logger)
	scorer := services.NewScorerService(geminiService, cfg.Screening.ScoringTimeout, logger)
	ledger := services.NewLedgerService(balanceRepo, cfg.Screening.InitialTokenGrant, logger)
	screener := services.NewScreenerService(services.ScreenerDeps{
		Extractor:  extractor,
		Scorer:     scorer,
		Ledger:     ledger,
		Store:      store,
		Candidates: candidateRepo,
		Index:      index,
	}, cfg.Screening.Concurrency, logger)
	notify := services.NewNotifyService(geminiService, mailer, cfg.Mail.Sender, logger)
	logger.Info("services initialized")

	// Handlers
	processHandler := handlers.NewProcessHandler(screener, extractor, cfg.Screening.MaxFileSize)
	tokenHandler := handlers.NewTokenHandler(ledger)
	emailHandler := handlers.NewEmailHandler(notify)
	candidateHandler := handlers.NewCandidateHandler(candidateRepo, index)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Screening.MaxFileSize) * 20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/process", processHandler.HandleProcess)

	api.Get("/tokens/:user_id", tokenHandler.HandleGetBalance)
	api.Post("/tokens/:user_id/initialize", tokenHandler.HandleInitialize)
	api.Post("/tokens/:user_id/purchase", tokenHandler.HandlePurchase)

	api.Post("/emails/generate", emailHandler.HandleGenerate)
	api.Post("/emails/send", emailHandler.HandleSend)

	api.Get("/candidates", candidateHandler.HandleList)
	api.Get("/candidates/stats", candidateHandler.HandleStats)
	api.Get("/candidates/search", candidateHandler.HandleSearch)
	api.Put("/candidates/:id/category", candidateHandler.HandleUpdateCategory)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/process",
				"GET /api/v1/tokens/:user_id",
				"POST /api/v1/tokens/:user_id/initialize",
				"POST /api/v1/tokens/:user_id/purchase",
				"POST /api/v1/emails/generate",
				"POST /api/v1/emails/send",
				"GET /api/v1/candidates",
				"GET /api/v1/candidates/stats",
				"GET /api/v1/candidates/search",
				"PUT /api/v1/candidates/:id/category",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
