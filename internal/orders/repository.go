package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Core order operations
	CreateOrderChecked(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// Lifecycle transitions
	ConfirmOrder(ctx context.Context, id uuid.UUID, contactEmail string) error
	CancelOrder(ctx context.Context, id uuid.UUID) error
	SplitRefund(ctx context.Context, original *Order, refundTicketIDs []uuid.UUID, purchasedAt time.Time) (*Order, error)

	// Deadline sweep support
	OpenOrdersForSweep(ctx context.Context) ([]SweepOrder, error)
	ApplySweep(ctx context.Context, cancelIDs []uuid.UUID, expireIDs []uuid.UUID) error
	NextSessionStart(ctx context.Context, after time.Time) (*time.Time, error)
}

// SweepOrder is the projection the deadline sweep plans against
type SweepOrder struct {
	ID              uuid.UUID  `gorm:"column:id"`
	State           OrderState `gorm:"column:state"`
	PurchaseDate    time.Time  `gorm:"column:purchase_date"`
	SessionStartsAt time.Time  `gorm:"column:starts_at"`
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateOrderChecked creates an order and its tickets atomically with seat
// availability validation. The session row is locked for the duration of
// the transaction so concurrent purchases for the same session serialize;
// the partial unique index on active (session_id, seat_id) pairs is the
// backstop if two transactions slip past the pre-check.
func (r *repository) CreateOrderChecked(ctx context.Context, order *Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the session row to serialize purchases for it
		var session struct {
			ID uuid.UUID `gorm:"column:id"`
		}
		err := tx.Table("sessions").
			Select("id").
			Where("id = ?", order.SessionID).
			Set("gorm:query_option", "FOR UPDATE").
			First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("session not found")
			}
			return fmt.Errorf("failed to lock session: %w", err)
		}

		// 2. Re-check that none of the requested seats is already taken
		seatIDs := make([]uuid.UUID, 0, len(order.Tickets))
		for _, t := range order.Tickets {
			seatIDs = append(seatIDs, t.SeatID)
		}

		var taken int64
		err = tx.Table("tickets").
			Where("session_id = ? AND seat_id IN ? AND state = ?", order.SessionID, seatIDs, TicketActive).
			Count(&taken).Error
		if err != nil {
			return fmt.Errorf("failed to check seat availability: %w", err)
		}
		if taken > 0 {
			return ErrSeatUnavailable
		}

		// 3. Create the order together with its tickets
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSeatUnavailable
			}
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
}

func (r *repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ConfirmOrder promotes a CREATED order to REFUNDABLE. The state predicate
// makes the write a no-op when a concurrent sweep cancelled the order after
// the caller's state check; that surfaces as ErrInvalidState instead of
// resurrecting a cancelled order.
func (r *repository) ConfirmOrder(ctx context.Context, id uuid.UUID, contactEmail string) error {
	updates := map[string]interface{}{
		"state":      OrderRefundable,
		"updated_at": time.Now().UTC(),
	}
	if contactEmail != "" {
		updates["contact_email"] = contactEmail
	}

	result := r.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ? AND state = ?", id, OrderCreated).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidState
	}
	return nil
}

// CancelOrder cancels the order and all of its active tickets in one
// transaction, freeing the seats for other purchasers.
func (r *repository) CancelOrder(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&Order{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"state":      OrderCancelled,
				"updated_at": time.Now().UTC(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		err = tx.Model(&Ticket{}).
			Where("order_id = ? AND state = ?", id, TicketActive).
			Update("state", TicketCancelled).Error
		if err != nil {
			return fmt.Errorf("failed to cancel tickets: %w", err)
		}

		return nil
	})
}

// SplitRefund refunds a subset of an order's tickets. The refunded tickets
// and the original order are cancelled; if any tickets are kept, a new
// REFUNDABLE order stamped with purchasedAt is created and the kept tickets
// are re-parented onto it. Returns the new order, or nil when everything
// was refunded.
func (r *repository) SplitRefund(ctx context.Context, original *Order, refundTicketIDs []uuid.UUID, purchasedAt time.Time) (*Order, error) {
	refundSet := make(map[uuid.UUID]bool, len(refundTicketIDs))
	for _, id := range refundTicketIDs {
		refundSet[id] = true
	}

	keptIDs := make([]uuid.UUID, 0, len(original.Tickets))
	for _, t := range original.Tickets {
		if t.State == TicketActive && !refundSet[t.ID] {
			keptIDs = append(keptIDs, t.ID)
		}
	}

	var replacement *Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guard against a concurrent sweep or second refund
		var state OrderState
		err := tx.Table("orders").
			Select("state").
			Where("id = ?", original.ID).
			Set("gorm:query_option", "FOR UPDATE").
			Scan(&state).Error
		if err != nil {
			return fmt.Errorf("failed to lock order: %w", err)
		}
		if state != OrderRefundable {
			return ErrInvalidState
		}

		if len(keptIDs) > 0 {
			next := &Order{
				SessionID:    original.SessionID,
				UserID:       original.UserID,
				GuestEmail:   original.GuestEmail,
				ContactEmail: original.ContactEmail,
				State:        OrderRefundable,
				PurchaseDate: purchasedAt,
			}
			if err := tx.Create(next).Error; err != nil {
				return fmt.Errorf("failed to create replacement order: %w", err)
			}

			err = tx.Model(&Ticket{}).
				Where("id IN ?", keptIDs).
				Update("order_id", next.ID).Error
			if err != nil {
				return fmt.Errorf("failed to move kept tickets: %w", err)
			}
			replacement = next
		}

		err = tx.Model(&Ticket{}).
			Where("id IN ?", refundTicketIDs).
			Update("state", TicketCancelled).Error
		if err != nil {
			return fmt.Errorf("failed to cancel refunded tickets: %w", err)
		}

		err = tx.Model(&Order{}).
			Where("id = ?", original.ID).
			Updates(map[string]interface{}{
				"state":      OrderCancelled,
				"updated_at": time.Now().UTC(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to close refunded order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if replacement != nil {
		return r.GetOrderByID(ctx, replacement.ID)
	}
	return nil, nil
}

// OpenOrdersForSweep returns every order still in a sweepable state joined
// with its session start, so the sweep can compute deadlines in one pass.
func (r *repository) OpenOrdersForSweep(ctx context.Context) ([]SweepOrder, error) {
	var open []SweepOrder
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.id, orders.state, orders.purchase_date, sessions.starts_at").
		Joins("JOIN sessions ON sessions.id = orders.session_id").
		Where("orders.state IN ?", []OrderState{OrderCreated, OrderRefundable}).
		Find(&open).Error
	return open, err
}

// ApplySweep applies one sweep plan atomically: cancelIDs are orders whose
// payment window lapsed (their tickets are freed), expireIDs are confirmed
// orders past the refund cutoff (tickets stay active, refunds are closed).
func (r *repository) ApplySweep(ctx context.Context, cancelIDs []uuid.UUID, expireIDs []uuid.UUID) error {
	if len(cancelIDs) == 0 && len(expireIDs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		if len(cancelIDs) > 0 {
			err := tx.Model(&Order{}).
				Where("id IN ? AND state = ?", cancelIDs, OrderCreated).
				Updates(map[string]interface{}{
					"state":      OrderCancelled,
					"updated_at": now,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to cancel expired orders: %w", err)
			}

			err = tx.Model(&Ticket{}).
				Where("order_id IN ? AND state = ?", cancelIDs, TicketActive).
				Update("state", TicketCancelled).Error
			if err != nil {
				return fmt.Errorf("failed to release swept tickets: %w", err)
			}
		}

		if len(expireIDs) > 0 {
			err := tx.Model(&Order{}).
				Where("id IN ? AND state = ?", expireIDs, OrderRefundable).
				Updates(map[string]interface{}{
					"state":      OrderNonRefundable,
					"updated_at": now,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to expire refund windows: %w", err)
			}
		}

		return nil
	})
}

// NextSessionStart returns the earliest session start strictly after the
// given instant, or nil when no future session exists.
func (r *repository) NextSessionStart(ctx context.Context, after time.Time) (*time.Time, error) {
	var next time.Time
	err := r.db.WithContext(ctx).
		Table("sessions").
		Where("starts_at > ?", after).
		Order("starts_at ASC").
		Limit(1).
		Pluck("starts_at", &next).Error
	if err != nil {
		return nil, err
	}
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}
