package sweeper

import (
	"context"
	"fmt"
	"time"

	"screenly/internal/orders"
	"screenly/internal/shared/config"
	"screenly/pkg/logger"

	"github.com/google/uuid"
)

// Store is the storage surface the deadline sweep runs against; the
// orders repository implements it.
type Store interface {
	OpenOrdersForSweep(ctx context.Context) ([]orders.SweepOrder, error)
	ApplySweep(ctx context.Context, cancelIDs []uuid.UUID, expireIDs []uuid.UUID) error
	NextSessionStart(ctx context.Context, after time.Time) (*time.Time, error)
}

// Sweeper enforces the two order deadlines: unpaid orders are cancelled
// once the payment window lapses, and confirmed orders become
// non-refundable once the session's refund cutoff passes. One pass is a
// pure plan over a snapshot followed by a single atomic apply, so running
// it twice on the same clock is a no-op the second time.
type Sweeper struct {
	store Store
	cfg   config.BookingConfig
	log   *logger.Logger
}

func New(store Store, cfg config.BookingConfig, log *logger.Logger) *Sweeper {
	return &Sweeper{store: store, cfg: cfg, log: log}
}

// Sweep runs one pass at the given instant and returns how many orders
// it transitioned.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	started := time.Now()

	open, err := s.store.OpenOrdersForSweep(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load open orders: %w", err)
	}

	cancelIDs, expireIDs := s.plan(open, now)
	if err := s.store.ApplySweep(ctx, cancelIDs, expireIDs); err != nil {
		return 0, fmt.Errorf("failed to apply sweep: %w", err)
	}

	transitioned := len(cancelIDs) + len(expireIDs)
	s.log.LogSweepPass(ctx, transitioned, time.Since(started))
	return transitioned, nil
}

// plan decides which open orders have crossed a deadline at the given
// instant. Deadlines are inclusive of the last valid moment: an order is
// overdue strictly after purchase date plus the payment window, and a
// refund window closes strictly at session start minus the refund cutoff.
func (s *Sweeper) plan(open []orders.SweepOrder, now time.Time) (cancelIDs, expireIDs []uuid.UUID) {
	for _, o := range open {
		switch o.State {
		case orders.OrderCreated:
			if now.After(o.PurchaseDate.Add(s.cfg.PaymentTimeout)) {
				cancelIDs = append(cancelIDs, o.ID)
			}
		case orders.OrderRefundable:
			if !now.Before(o.SessionStartsAt.Add(-s.cfg.RefundTimeout)) {
				expireIDs = append(expireIDs, o.ID)
			}
		}
	}
	return cancelIDs, expireIDs
}

// NextWakeup computes how long the sweep loop should sleep: the time to
// the next session start, clamped to the configured ceiling so payment
// windows are still enforced promptly during quiet stretches.
func (s *Sweeper) NextWakeup(ctx context.Context, now time.Time) time.Duration {
	next, err := s.store.NextSessionStart(ctx, now)
	if err != nil || next == nil {
		return s.cfg.SweepCeiling
	}

	delay := next.Sub(now)
	if delay <= 0 || delay > s.cfg.SweepCeiling {
		return s.cfg.SweepCeiling
	}
	return delay
}
