package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"screenly/internal/notifications"
	"screenly/internal/shared/config"
	"screenly/pkg/logger"

	"github.com/joho/godotenv"
)

// Notification worker. Consumes order events from Kafka and delivers
// emails over SMTP.
func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	var emailService notifications.EmailService
	smtpConfig := notifications.NewSMTPConfigFromEnv()
	smtpService, err := notifications.NewSMTPEmailService(smtpConfig)
	if err != nil {
		appLogger.Info("SMTP not configured, logging emails instead", slog.Any("reason", err))
		emailService = notifications.NewLogEmailService()
	} else {
		emailService = smtpService
	}

	consumerConfig := notifications.DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID
	consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}

	consumer, err := notifications.NewKafkaConsumer(consumerConfig, emailService)
	if err != nil {
		appLogger.Error("Failed to create notification consumer", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.StartConsumers(ctx, cfg.Kafka.ConsumerWorkers); err != nil {
		appLogger.Error("Failed to start notification consumers", slog.Any("error", err))
		os.Exit(1)
	}

	appLogger.Info("Notification worker running",
		slog.Any("brokers", cfg.Kafka.Brokers),
		slog.String("topic", cfg.Kafka.NotificationTopic),
		slog.Int("workers", cfg.Kafka.ConsumerWorkers),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down notification worker...")
	if err := consumer.Stop(); err != nil {
		appLogger.Error("Error stopping consumer", slog.Any("error", err))
	}
}
