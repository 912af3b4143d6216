package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"screenly/internal/sessions"
	"screenly/internal/shared/config"
	"screenly/internal/theatres"
	"screenly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchaser is the principal an order operation runs as. Exactly one of
// UserID (authenticated customer) and Email (guest checkout) is set; the
// engine never resolves identity itself.
type Purchaser struct {
	UserID *uuid.UUID
	Email  string
}

// SessionDirectory provides the session facts the order engine needs
type SessionDirectory interface {
	GetSession(ctx context.Context, id uuid.UUID) (*sessions.Session, error)
}

// SeatDirectory resolves seats together with their pricing types
type SeatDirectory interface {
	GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]theatres.Seat, error)
}

// OrderNotification is the payload handed to the notification pipeline
// after a lifecycle transition commits.
type OrderNotification struct {
	OrderID      uuid.UUID  `json:"order_id"`
	Email        string     `json:"email"`
	State        OrderState `json:"state"`
	TotalCost    float64    `json:"total_cost"`
	TicketCount  int        `json:"ticket_count"`
	SessionStart time.Time  `json:"session_start"`
}

// Notifier publishes order lifecycle notifications. Delivery is best
// effort; a failed publish never rolls back the transition.
type Notifier interface {
	OrderConfirmed(ctx context.Context, n OrderNotification) error
	OrderUpdated(ctx context.Context, n OrderNotification) error
}

type Service interface {
	PlaceOrder(ctx context.Context, purchaser Purchaser, req PlaceOrderRequest) (*OrderResponse, error)
	ConfirmPayment(ctx context.Context, purchaser Purchaser, orderID uuid.UUID, req ConfirmPaymentRequest) (*OrderResponse, error)
	CancelPayment(ctx context.Context, purchaser Purchaser, orderID uuid.UUID) (*OrderResponse, error)
	Refund(ctx context.Context, purchaser Purchaser, orderID uuid.UUID, req RefundRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, purchaser Purchaser, orderID uuid.UUID) (*OrderResponse, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error)
}

type service struct {
	repo     Repository
	sessions SessionDirectory
	seats    SeatDirectory
	notifier Notifier
	cfg      config.BookingConfig
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, sessionDir SessionDirectory, seatDir SeatDirectory, notifier Notifier, cfg config.BookingConfig, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		sessions: sessionDir,
		seats:    seatDir,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder reserves the requested seats for a session as a CREATED
// order. The payment window starts at the recorded purchase date.
func (s *service) PlaceOrder(ctx context.Context, purchaser Purchaser, req PlaceOrderRequest) (*OrderResponse, error) {
	if purchaser.UserID == nil && purchaser.Email == "" {
		return nil, fmt.Errorf("%w: guest orders require an email", ErrValidation)
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid session id", ErrValidation)
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	seen := make(map[uuid.UUID]bool, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid seat id", ErrValidation)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate seat in request", ErrValidation)
		}
		seen[id] = true
		seatIDs = append(seatIDs, id)
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	now := s.now()
	if !session.StartsAt.After(now) {
		return nil, fmt.Errorf("%w: session has already started", ErrValidation)
	}

	seats, err := s.seats.GetSeatsByIDs(ctx, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}
	if len(seats) != len(seatIDs) {
		return nil, ErrSeatNotFound
	}
	for _, seat := range seats {
		if seat.HallID != session.HallID {
			return nil, ErrSeatNotFound
		}
		if seat.Type == nil {
			return nil, fmt.Errorf("seat %s has no pricing type", seat.ID)
		}
	}

	order := &Order{
		SessionID:    sessionID,
		UserID:       purchaser.UserID,
		ContactEmail: purchaser.Email,
		State:        OrderCreated,
		PurchaseDate: now,
	}
	if purchaser.UserID == nil {
		guestEmail := purchaser.Email
		order.GuestEmail = &guestEmail
	}

	for _, seat := range seats {
		order.Tickets = append(order.Tickets, Ticket{
			SessionID:    sessionID,
			SeatID:       seat.ID,
			Cost:         TicketCost(*seat.Type, session.Is3D),
			State:        TicketActive,
			PurchaseDate: now,
		})
	}

	if err := s.repo.CreateOrderChecked(ctx, order); err != nil {
		if errors.Is(err, ErrSeatUnavailable) {
			return nil, ErrSeatUnavailable
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.log.LogOrderPlaced(ctx, order.ID.String(), sessionID.String(), len(order.Tickets))
	return order.ToResponse(), nil
}

// ConfirmPayment moves a CREATED order to REFUNDABLE. Confirmation after
// the payment window has lapsed is rejected even if the sweep has not
// caught the order yet.
func (s *service) ConfirmPayment(ctx context.Context, purchaser Purchaser, orderID uuid.UUID, req ConfirmPaymentRequest) (*OrderResponse, error) {
	order, err := s.getAuthorized(ctx, purchaser, orderID)
	if err != nil {
		return nil, err
	}

	if order.State != OrderCreated {
		return nil, ErrInvalidState
	}
	if s.now().After(order.PurchaseDate.Add(s.cfg.PaymentTimeout)) {
		return nil, ErrInvalidState
	}

	// The repository re-checks the state on write; a sweep cancellation
	// landing after the check above surfaces as ErrInvalidState here.
	if err := s.repo.ConfirmOrder(ctx, order.ID, req.ContactEmail); err != nil {
		if errors.Is(err, ErrInvalidState) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("failed to confirm order: %w", err)
	}

	order.State = OrderRefundable
	if req.ContactEmail != "" {
		order.ContactEmail = req.ContactEmail
	}
	s.log.LogOrderTransition(ctx, order.ID.String(), string(OrderCreated), string(OrderRefundable))
	s.notifyConfirmed(ctx, order)

	return order.ToResponse(), nil
}

// CancelPayment abandons a CREATED order, releasing its seats
func (s *service) CancelPayment(ctx context.Context, purchaser Purchaser, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.getAuthorized(ctx, purchaser, orderID)
	if err != nil {
		return nil, err
	}

	if order.State != OrderCreated {
		return nil, ErrInvalidState
	}

	if err := s.repo.CancelOrder(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	order.State = OrderCancelled
	for i := range order.Tickets {
		order.Tickets[i].State = TicketCancelled
	}
	s.log.LogOrderTransition(ctx, order.ID.String(), string(OrderCreated), string(OrderCancelled))
	s.notifyUpdated(ctx, order)

	return order.ToResponse(), nil
}

// Refund cancels a subset of a REFUNDABLE order's tickets. A partial
// refund closes the order and moves the kept tickets onto a fresh
// REFUNDABLE order; a full refund just closes it. Refunds stop once the
// session's refund cutoff has passed or the session has started.
func (s *service) Refund(ctx context.Context, purchaser Purchaser, orderID uuid.UUID, req RefundRequest) (*OrderResponse, error) {
	order, err := s.getAuthorized(ctx, purchaser, orderID)
	if err != nil {
		return nil, err
	}

	if order.State != OrderRefundable {
		return nil, ErrInvalidState
	}

	session, err := s.sessions.GetSession(ctx, order.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !s.now().Before(session.StartsAt.Add(-s.cfg.RefundTimeout)) {
		return nil, ErrInvalidState
	}

	active := make(map[uuid.UUID]bool, len(order.Tickets))
	for _, t := range order.Tickets {
		if t.State == TicketActive {
			active[t.ID] = true
		}
	}

	refundIDs := make([]uuid.UUID, 0, len(req.TicketIDs))
	seen := make(map[uuid.UUID]bool, len(req.TicketIDs))
	for _, raw := range req.TicketIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid ticket id", ErrValidation)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate ticket in request", ErrValidation)
		}
		seen[id] = true
		if !active[id] {
			return nil, ErrTicketNotFound
		}
		refundIDs = append(refundIDs, id)
	}

	// The replacement order opens a fresh purchase window
	replacement, err := s.repo.SplitRefund(ctx, order, refundIDs, s.now())
	if err != nil {
		if errors.Is(err, ErrInvalidState) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("failed to refund tickets: %w", err)
	}

	s.log.LogOrderTransition(ctx, order.ID.String(), string(OrderRefundable), string(OrderCancelled))
	order.State = OrderCancelled
	for i := range order.Tickets {
		order.Tickets[i].State = TicketCancelled
	}

	// The purchaser hears about the order they still hold: the replacement
	// with the kept tickets, or the closed original on a full refund.
	if replacement != nil {
		s.notifyUpdated(ctx, replacement)
		return replacement.ToResponse(), nil
	}
	s.notifyUpdated(ctx, order)
	return order.ToResponse(), nil
}

func (s *service) GetOrder(ctx context.Context, purchaser Purchaser, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.getAuthorized(ctx, purchaser, orderID)
	if err != nil {
		return nil, err
	}
	return order.ToResponse(), nil
}

func (s *service) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.repo.GetUserOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *orders[i].ToResponse())
	}
	return responses, nil
}

// getAuthorized loads an order and verifies the purchaser may act on it.
// Orders placed by an account are only visible to that account; guest
// orders are addressed by their order ID alone.
func (s *service) getAuthorized(ctx context.Context, purchaser Purchaser, orderID uuid.UUID) (*Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if order.UserID != nil {
		if purchaser.UserID == nil || *purchaser.UserID != *order.UserID {
			return nil, ErrOrderNotFound
		}
	}

	return order, nil
}

func (s *service) notifyConfirmed(ctx context.Context, order *Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.OrderConfirmed(ctx, s.notification(ctx, order)); err != nil {
		s.log.LogNotificationFailure(ctx, order.ID.String(), order.ContactEmail, err)
	}
}

func (s *service) notifyUpdated(ctx context.Context, order *Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.OrderUpdated(ctx, s.notification(ctx, order)); err != nil {
		s.log.LogNotificationFailure(ctx, order.ID.String(), order.ContactEmail, err)
	}
}

func (s *service) notification(ctx context.Context, order *Order) OrderNotification {
	var sessionStart time.Time
	if session, err := s.sessions.GetSession(ctx, order.SessionID); err == nil {
		sessionStart = session.StartsAt
	}
	return OrderNotification{
		OrderID:      order.ID,
		Email:        order.ContactEmail,
		State:        order.State,
		TotalCost:    order.TotalCost(),
		TicketCount:  len(order.ActiveTickets()),
		SessionStart: sessionStart,
	}
}
