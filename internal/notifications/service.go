package notifications

import (
	"context"

	"screenly/internal/orders"
)

// Service bridges the order engine to the Kafka pipeline; it implements
// orders.Notifier.
type Service struct {
	producer Producer
}

func NewService(producer Producer) *Service {
	return &Service{producer: producer}
}

func (s *Service) OrderConfirmed(ctx context.Context, n orders.OrderNotification) error {
	return s.producer.Publish(ctx, NewOrderNotification(
		NotificationTypeOrderConfirmed,
		n.OrderID, n.Email, string(n.State), n.TotalCost, n.TicketCount, n.SessionStart,
	))
}

func (s *Service) OrderUpdated(ctx context.Context, n orders.OrderNotification) error {
	return s.producer.Publish(ctx, NewOrderNotification(
		NotificationTypeOrderUpdated,
		n.OrderID, n.Email, string(n.State), n.TotalCost, n.TicketCount, n.SessionStart,
	))
}
