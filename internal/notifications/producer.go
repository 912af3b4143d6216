package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Producer publishes order notifications to Kafka
type Producer interface {
	Publish(ctx context.Context, notification *OrderNotification) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka notification producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "order-notifications",
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

// NewKafkaProducer creates a new Kafka notification producer
func NewKafkaProducer(config *ProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = config.IdempotentWrites

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps a recipient's messages on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("Kafka notification producer created")
	return &kafkaProducer{producer: producer, config: config}, nil
}

// Publish sends a single order notification to Kafka
func (kp *kafkaProducer) Publish(ctx context.Context, notification *OrderNotification) error {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now().UTC()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.config.Topic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   kp.createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	log.Printf("Notification published - Topic: %s, Partition: %d, Offset: %d, Type: %s",
		kp.config.Topic, partition, offset, notification.Type)
	return nil
}

func (kp *kafkaProducer) createHeaders(notification *OrderNotification) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("order_id"), Value: []byte(notification.OrderID.String())},
		{Key: []byte("recipient_email"), Value: []byte(notification.RecipientEmail)},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}
}

// Close closes the Kafka producer
func (kp *kafkaProducer) Close() error {
	if kp.producer != nil {
		if err := kp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("Kafka notification producer closed")
	}
	return nil
}
