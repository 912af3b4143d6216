package sweeper

import (
	"context"
	"testing"
	"time"

	"screenly/internal/orders"
	"screenly/internal/shared/config"
	"screenly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	open        []orders.SweepOrder
	nextSession *time.Time

	cancelled []uuid.UUID
	expired   []uuid.UUID
	applies   int
}

func (s *fakeStore) OpenOrdersForSweep(ctx context.Context) ([]orders.SweepOrder, error) {
	return s.open, nil
}

func (s *fakeStore) ApplySweep(ctx context.Context, cancelIDs []uuid.UUID, expireIDs []uuid.UUID) error {
	if len(cancelIDs) == 0 && len(expireIDs) == 0 {
		return nil
	}
	s.applies++
	s.cancelled = append(s.cancelled, cancelIDs...)
	s.expired = append(s.expired, expireIDs...)

	// mimic the database: swept orders leave the open set
	swept := make(map[uuid.UUID]bool)
	for _, id := range cancelIDs {
		swept[id] = true
	}
	for _, id := range expireIDs {
		swept[id] = true
	}
	var remaining []orders.SweepOrder
	for _, o := range s.open {
		if !swept[o.ID] {
			remaining = append(remaining, o)
		}
	}
	s.open = remaining
	return nil
}

func (s *fakeStore) NextSessionStart(ctx context.Context, after time.Time) (*time.Time, error) {
	return s.nextSession, nil
}

var testCfg = config.BookingConfig{
	PaymentTimeout: 15 * time.Minute,
	RefundTimeout:  time.Hour,
	SweepCeiling:   5 * time.Minute,
}

func TestSweepCancelsOverduePayments(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	sessionStart := now.Add(6 * time.Hour)

	overdue := uuid.New()
	fresh := uuid.New()
	store := &fakeStore{open: []orders.SweepOrder{
		{ID: overdue, State: orders.OrderCreated, PurchaseDate: now.Add(-16 * time.Minute), SessionStartsAt: sessionStart},
		{ID: fresh, State: orders.OrderCreated, PurchaseDate: now.Add(-5 * time.Minute), SessionStartsAt: sessionStart},
	}}

	s := New(store, testCfg, logger.GetDefault())
	transitioned, err := s.Sweep(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, transitioned)
	assert.Equal(t, []uuid.UUID{overdue}, store.cancelled)
	assert.Empty(t, store.expired)
}

func TestSweepExpiresRefundWindows(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	closing := uuid.New()
	stillOpen := uuid.New()
	store := &fakeStore{open: []orders.SweepOrder{
		// cutoff at start-1h: a session starting in 30m is past it
		{ID: closing, State: orders.OrderRefundable, PurchaseDate: now.Add(-2 * time.Hour), SessionStartsAt: now.Add(30 * time.Minute)},
		// a session starting in 2h is still refundable
		{ID: stillOpen, State: orders.OrderRefundable, PurchaseDate: now.Add(-2 * time.Hour), SessionStartsAt: now.Add(2 * time.Hour)},
	}}

	s := New(store, testCfg, logger.GetDefault())
	transitioned, err := s.Sweep(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, transitioned)
	assert.Equal(t, []uuid.UUID{closing}, store.expired)
	assert.Empty(t, store.cancelled)
}

func TestSweepDeadlineBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	// Exactly at the payment deadline the order is still payable
	atDeadline := uuid.New()
	store := &fakeStore{open: []orders.SweepOrder{
		{ID: atDeadline, State: orders.OrderCreated, PurchaseDate: now.Add(-testCfg.PaymentTimeout), SessionStartsAt: now.Add(6 * time.Hour)},
	}}
	s := New(store, testCfg, logger.GetDefault())
	transitioned, err := s.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, transitioned)

	// Exactly at the refund cutoff the window is closed
	atCutoff := uuid.New()
	store = &fakeStore{open: []orders.SweepOrder{
		{ID: atCutoff, State: orders.OrderRefundable, PurchaseDate: now.Add(-2 * time.Hour), SessionStartsAt: now.Add(testCfg.RefundTimeout)},
	}}
	s = New(store, testCfg, logger.GetDefault())
	transitioned, err = s.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, transitioned)
}

func TestSweepIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{open: []orders.SweepOrder{
		{ID: uuid.New(), State: orders.OrderCreated, PurchaseDate: now.Add(-time.Hour), SessionStartsAt: now.Add(time.Hour)},
		{ID: uuid.New(), State: orders.OrderRefundable, PurchaseDate: now.Add(-time.Hour), SessionStartsAt: now.Add(30 * time.Minute)},
	}}

	s := New(store, testCfg, logger.GetDefault())

	first, err := s.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	second, err := s.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, second)
	assert.Equal(t, 1, store.applies)
}

func TestNextWakeupClampsToCeiling(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s := New(&fakeStore{}, testCfg, logger.GetDefault())

	// No upcoming sessions: sleep the ceiling
	assert.Equal(t, testCfg.SweepCeiling, s.NextWakeup(context.Background(), now))

	// Session far out: still the ceiling
	far := now.Add(8 * time.Hour)
	s = New(&fakeStore{nextSession: &far}, testCfg, logger.GetDefault())
	assert.Equal(t, testCfg.SweepCeiling, s.NextWakeup(context.Background(), now))

	// Session sooner than the ceiling: wake at its start
	soon := now.Add(2 * time.Minute)
	s = New(&fakeStore{nextSession: &soon}, testCfg, logger.GetDefault())
	assert.Equal(t, 2*time.Minute, s.NextWakeup(context.Background(), now))
}
