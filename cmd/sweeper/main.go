package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"screenly/internal/orders"
	"screenly/internal/shared/config"
	"screenly/internal/shared/database"
	"screenly/internal/sweeper"
	"screenly/pkg/logger"

	"github.com/joho/godotenv"
)

// Standalone deadline sweep worker. Runs the same sweep loop the API
// server embeds, for deployments that scale the API horizontally and
// want exactly one sweeper.
func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("Failed to initialize databases", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	orderRepo := orders.NewRepository(db.PostgreSQL)
	sweepEngine := sweeper.New(orderRepo, cfg.Booking, appLogger)
	processor := sweeper.NewProcessor(sweepEngine, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor.Start(ctx)
	appLogger.Info("Sweep worker running",
		slog.Duration("payment_timeout", cfg.Booking.PaymentTimeout),
		slog.Duration("refund_timeout", cfg.Booking.RefundTimeout),
		slog.Duration("sweep_ceiling", cfg.Booking.SweepCeiling),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down sweep worker...")
	processor.Stop()
}
