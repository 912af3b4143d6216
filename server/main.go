package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screenly/api/routes"
	"screenly/internal/notifications"
	"screenly/internal/orders"
	"screenly/internal/shared/config"
	"screenly/internal/shared/database"
	"screenly/internal/sweeper"
	"screenly/pkg/logger"
	"screenly/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("Failed to initialize databases", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, &cfg.RateLimit)
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Notification pipeline: lifecycle transitions publish to Kafka; the
	// API keeps working without it.
	var notifier orders.Notifier
	producerConfig := notifications.DefaultProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.Topic = cfg.Kafka.NotificationTopic

	producer, err := notifications.NewKafkaProducer(producerConfig)
	if err != nil {
		appLogger.Error("Failed to initialize notification producer, continuing without notifications", slog.Any("error", err))
	} else {
		defer producer.Close()
		notifier = notifications.NewService(producer)
	}

	appRouter := routes.NewRouter(cfg, db, notifier)
	engine := setupEngine(cfg, appRouter, rateLimiter)

	// Deadline sweep runs in-process alongside the API
	sweepEngine := sweeper.New(appRouter.OrderRepository(), cfg.Booking, appLogger)
	sweepProcessor := sweeper.NewProcessor(sweepEngine, appLogger)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	sweepProcessor.Start(sweepCtx)
	defer sweepProcessor.Stop()

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("notifications", notifier != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, appRouter *routes.Router, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(requestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter.SetupRoutes(engine)
	return engine
}

func requestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
