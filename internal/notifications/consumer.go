package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

// Consumer drains the notification topic and hands messages to the
// email service
type Consumer interface {
	StartConsumers(ctx context.Context, numWorkers int) error
	Stop() error
}

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeout       time.Duration
	HeartbeatInterval    time.Duration
	MaxProcessingTime    time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "screenly-notification-workers",
		Topics:               []string{"order-notifications"},
		SessionTimeout:       30 * time.Second,
		HeartbeatInterval:    3 * time.Second,
		MaxProcessingTime:    5 * time.Minute,
		OffsetOldest:         false,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

type kafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emailService  EmailService
	cancel        context.CancelFunc
}

func NewKafkaConsumer(config *ConsumerConfig, emailService EmailService) (Consumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.HeartbeatInterval
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emailService:  emailService,
	}, nil
}

func (kc *kafkaConsumer) StartConsumers(ctx context.Context, numWorkers int) error {
	ctx, kc.cancel = context.WithCancel(ctx)
	log.Printf("Starting %d notification consumer workers for topics: %v", numWorkers, kc.config.Topics)

	go kc.handleErrors()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			kc.runWorker(ctx, workerID)
		}(i)
	}

	return nil
}

func (kc *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		config:       kc.config,
		workerID:     workerID,
		emailService: kc.emailService,
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", workerID)
			return
		default:
			if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
				log.Printf("Worker %d error consuming messages: %v", workerID, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (kc *kafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		log.Printf("Consumer group error: %v", err)
	}
}

func (kc *kafkaConsumer) Stop() error {
	log.Println("Stopping notification consumer...")
	if kc.cancel != nil {
		kc.cancel()
	}

	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerGroupHandler struct {
	config       *ConsumerConfig
	workerID     int
	emailService EmailService
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Printf("Worker %d: consumer group session started", h.workerID)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Printf("Worker %d: consumer group session ended", h.workerID)
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				log.Printf("Worker %d: error processing message: %v", h.workerID, err)
			} else {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification OrderNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	notification.Status = NotificationStatusSending

	if err := h.sendWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	log.Printf("Worker %d: email sent for order %s to %s", h.workerID, notification.OrderID, notification.RecipientEmail)
	return nil
}

func (h *consumerGroupHandler) sendWithRetry(ctx context.Context, notification *OrderNotification) error {
	maxRetries := h.config.MaxRetries
	backoff := h.config.RetryBackoffDuration

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := h.emailService.SendNotification(ctx, notification)
		if err == nil {
			return nil
		}

		if attempt == maxRetries {
			return fmt.Errorf("delivery failed after %d attempts: %w", maxRetries, err)
		}

		// Exponential backoff
		delay := backoff * time.Duration(1<<attempt)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
