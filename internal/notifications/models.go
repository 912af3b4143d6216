package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies which order event the message describes
type NotificationType string

const (
	NotificationTypeOrderConfirmed NotificationType = "order_confirmed"
	NotificationTypeOrderUpdated   NotificationType = "order_updated"
)

// NotificationStatus tracks a message through the delivery pipeline
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusQueued  NotificationStatus = "queued"
	NotificationStatusSending NotificationStatus = "sending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// OrderNotification is the message published to Kafka when an order
// transitions. The consumer side renders it into an email.
type OrderNotification struct {
	ID             uuid.UUID          `json:"id"`
	Type           NotificationType   `json:"type"`
	OrderID        uuid.UUID          `json:"order_id"`
	RecipientEmail string             `json:"recipient_email"`
	OrderState     string             `json:"order_state"`
	TotalCost      float64            `json:"total_cost"`
	TicketCount    int                `json:"ticket_count"`
	SessionStart   time.Time          `json:"session_start"`
	Status         NotificationStatus `json:"status"`
	LastError      *string            `json:"last_error,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewOrderNotification builds a pending notification for an order event
func NewOrderNotification(notificationType NotificationType, orderID uuid.UUID, email, state string, totalCost float64, ticketCount int, sessionStart time.Time) *OrderNotification {
	now := time.Now().UTC()
	return &OrderNotification{
		ID:             uuid.New(),
		Type:           notificationType,
		OrderID:        orderID,
		RecipientEmail: email,
		OrderState:     state,
		TotalCost:      totalCost,
		TicketCount:    ticketCount,
		SessionStart:   sessionStart,
		Status:         NotificationStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ToJSON serializes the notification for the wire
func (n *OrderNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// GetPartitionKey routes all messages for one recipient to one partition
// so their emails arrive in order.
func (n *OrderNotification) GetPartitionKey() string {
	if n.RecipientEmail != "" {
		return n.RecipientEmail
	}
	return n.OrderID.String()
}

// MarkSent records successful delivery
func (n *OrderNotification) MarkSent() {
	n.Status = NotificationStatusSent
	n.UpdatedAt = time.Now().UTC()
}

// MarkFailed records a delivery failure
func (n *OrderNotification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	errStr := err.Error()
	n.LastError = &errStr
	n.UpdatedAt = time.Now().UTC()
}
