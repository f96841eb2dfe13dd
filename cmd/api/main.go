package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"locallink/internal/config"
	"locallink/internal/handler"
	"locallink/internal/middleware"
	"locallink/internal/repository"
	"locallink/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	slog.SetDefault(appLogger)

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		appLogger.Warn("redis unavailable, caching disabled", slog.Any("error", err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("minio unavailable, image uploads will fail", slog.Any("error", err))
		minioClient = nil
	}

	repos := repository.NewRepositories(db)
	tm := repository.NewTransactionManager(db)
	services := service.NewServices(repos, tm, redisClient, minioClient, cfg, appLogger)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(appLogger),
		BodyLimit:    int(cfg.MaxUploadSize) * 11,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use("/api", middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow))

	handler.SetupRoutes(app, handlers, services.Auth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatchCtx, cancelDispatch := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		services.Dispatcher.Start(dispatchCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("server starting", slog.String("port", cfg.Port), slog.String("environment", cfg.Environment))
		serverErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			appLogger.Error("server stopped", slog.Any("error", err))
		}
	case <-ctx.Done():
		appLogger.Info("shutting down")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			appLogger.Error("graceful shutdown failed", slog.Any("error", err))
		}
	}

	cancelDispatch()
	wg.Wait()
	appLogger.Info("shutdown complete")
}
