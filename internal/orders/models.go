package orders

import (
	"time"

	"github.com/google/uuid"
)

// Order is a purchase attempt for one session. Exactly one of UserID and
// GuestEmail is set; ContactEmail is the delivery address snapshotted from
// the purchaser. An order owns its tickets by foreign key.
type Order struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SessionID    uuid.UUID  `json:"session_id" gorm:"type:uuid;index;not null"`
	UserID       *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`
	GuestEmail   *string    `json:"guest_email,omitempty" gorm:"size:255"`
	ContactEmail string     `json:"contact_email" gorm:"size:255"`
	State        OrderState `json:"state" gorm:"type:varchar(20);not null;default:'CREATED';index"`
	PurchaseDate time.Time  `json:"purchase_date" gorm:"not null"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Tickets []Ticket `json:"tickets,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;"`
}

// Ticket reserves exactly one seat within one order. SessionID is
// denormalized from the owning order so the partial unique index on
// (session_id, seat_id) over active tickets can enforce no double booking
// at the storage layer. Cost is snapshotted at creation and never
// recomputed.
type Ticket struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrderID      uuid.UUID   `json:"order_id" gorm:"type:uuid;index;not null"`
	SessionID    uuid.UUID   `json:"session_id" gorm:"type:uuid;index;not null"`
	SeatID       uuid.UUID   `json:"seat_id" gorm:"type:uuid;index;not null"`
	Cost         float64     `json:"cost" gorm:"not null"`
	State        TicketState `json:"state" gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	PurchaseDate time.Time   `json:"purchase_date" gorm:"not null"`
	CreatedAt    time.Time   `json:"created_at"`
}

// TableName sets the table name for Order
func (Order) TableName() string {
	return "orders"
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}

// IsGuest reports whether the order was placed through guest checkout
func (o *Order) IsGuest() bool {
	return o.UserID == nil
}

// ActiveTickets returns the order's tickets still in ACTIVE state
func (o *Order) ActiveTickets() []Ticket {
	active := make([]Ticket, 0, len(o.Tickets))
	for _, t := range o.Tickets {
		if t.State == TicketActive {
			active = append(active, t)
		}
	}
	return active
}

// TotalCost sums the snapshotted costs of the order's active tickets
func (o *Order) TotalCost() float64 {
	var total float64
	for _, t := range o.Tickets {
		if t.State == TicketActive {
			total += t.Cost
		}
	}
	return total
}

// PlaceOrderRequest represents a request to reserve seats for a session
type PlaceOrderRequest struct {
	SessionID  string   `json:"session_id" binding:"required,uuid"`
	SeatIDs    []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
	GuestEmail string   `json:"guest_email" binding:"omitempty,email"`
}

// ConfirmPaymentRequest represents a payment confirmation
type ConfirmPaymentRequest struct {
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}

// RefundRequest selects the tickets of a refundable order to cancel
type RefundRequest struct {
	TicketIDs []string `json:"ticket_ids" binding:"required,min=1,dive,uuid"`
}

// OrderResponse is the order view returned from engine operations
type OrderResponse struct {
	ID           string     `json:"id"`
	SessionID    string     `json:"session_id"`
	State        string     `json:"state"`
	PurchaseDate time.Time  `json:"purchase_date"`
	TotalCost    float64    `json:"total_cost"`
	Guest        bool       `json:"guest"`
	Tickets      []TicketView `json:"tickets"`
}

// TicketView is the per-ticket slice of an order view
type TicketView struct {
	ID     string  `json:"id"`
	SeatID string  `json:"seat_id"`
	Cost   float64 `json:"cost"`
	State  string  `json:"state"`
}

// ToResponse converts an order into its API view
func (o *Order) ToResponse() *OrderResponse {
	tickets := make([]TicketView, 0, len(o.Tickets))
	for _, t := range o.Tickets {
		tickets = append(tickets, TicketView{
			ID:     t.ID.String(),
			SeatID: t.SeatID.String(),
			Cost:   t.Cost,
			State:  string(t.State),
		})
	}
	return &OrderResponse{
		ID:           o.ID.String(),
		SessionID:    o.SessionID.String(),
		State:        string(o.State),
		PurchaseDate: o.PurchaseDate,
		TotalCost:    o.TotalCost(),
		Guest:        o.IsGuest(),
		Tickets:      tickets,
	}
}
