package orders

import (
	"context"
	"testing"
	"time"

	"screenly/internal/sessions"
	"screenly/internal/shared/config"
	"screenly/internal/theatres"
	"screenly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository with the same availability and
// refund-split semantics as the Postgres implementation. beforeConfirm,
// when set, runs between the service's state check and the confirm write,
// standing in for a concurrently committed transaction.
type fakeRepo struct {
	orders        map[uuid.UUID]*Order
	beforeConfirm func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[uuid.UUID]*Order)}
}

func (r *fakeRepo) CreateOrderChecked(ctx context.Context, order *Order) error {
	requested := make(map[uuid.UUID]bool, len(order.Tickets))
	for _, t := range order.Tickets {
		requested[t.SeatID] = true
	}
	for _, existing := range r.orders {
		for _, t := range existing.Tickets {
			if t.SessionID == order.SessionID && t.State == TicketActive && requested[t.SeatID] {
				return ErrSeatUnavailable
			}
		}
	}

	order.ID = uuid.New()
	for i := range order.Tickets {
		order.Tickets[i].ID = uuid.New()
		order.Tickets[i].OrderID = order.ID
	}
	r.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *fakeRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyOrder(order), nil
}

func (r *fakeRepo) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	var result []Order
	for _, order := range r.orders {
		if order.UserID != nil && *order.UserID == userID {
			result = append(result, *copyOrder(order))
		}
	}
	return result, nil
}

func (r *fakeRepo) ConfirmOrder(ctx context.Context, id uuid.UUID, contactEmail string) error {
	if r.beforeConfirm != nil {
		r.beforeConfirm()
	}
	order := r.orders[id]
	if order.State != OrderCreated {
		return ErrInvalidState
	}
	order.State = OrderRefundable
	if contactEmail != "" {
		order.ContactEmail = contactEmail
	}
	return nil
}

func (r *fakeRepo) CancelOrder(ctx context.Context, id uuid.UUID) error {
	order := r.orders[id]
	order.State = OrderCancelled
	for i := range order.Tickets {
		if order.Tickets[i].State == TicketActive {
			order.Tickets[i].State = TicketCancelled
		}
	}
	return nil
}

func (r *fakeRepo) SplitRefund(ctx context.Context, original *Order, refundTicketIDs []uuid.UUID, purchasedAt time.Time) (*Order, error) {
	stored := r.orders[original.ID]
	if stored.State != OrderRefundable {
		return nil, ErrInvalidState
	}

	refundSet := make(map[uuid.UUID]bool, len(refundTicketIDs))
	for _, id := range refundTicketIDs {
		refundSet[id] = true
	}

	var kept []Ticket
	for i := range stored.Tickets {
		t := &stored.Tickets[i]
		if refundSet[t.ID] {
			t.State = TicketCancelled
		} else if t.State == TicketActive {
			kept = append(kept, *t)
		}
	}
	stored.State = OrderCancelled

	if len(kept) == 0 {
		return nil, nil
	}

	replacement := &Order{
		ID:           uuid.New(),
		SessionID:    stored.SessionID,
		UserID:       stored.UserID,
		GuestEmail:   stored.GuestEmail,
		ContactEmail: stored.ContactEmail,
		State:        OrderRefundable,
		PurchaseDate: purchasedAt,
	}
	for i := range kept {
		kept[i].OrderID = replacement.ID
	}
	replacement.Tickets = kept

	// kept tickets now live on the replacement
	var remaining []Ticket
	for _, t := range stored.Tickets {
		if t.State == TicketCancelled {
			remaining = append(remaining, t)
		}
	}
	stored.Tickets = remaining

	r.orders[replacement.ID] = copyOrder(replacement)
	return copyOrder(replacement), nil
}

func (r *fakeRepo) OpenOrdersForSweep(ctx context.Context) ([]SweepOrder, error) {
	return nil, nil
}

func (r *fakeRepo) ApplySweep(ctx context.Context, cancelIDs []uuid.UUID, expireIDs []uuid.UUID) error {
	return nil
}

func (r *fakeRepo) NextSessionStart(ctx context.Context, after time.Time) (*time.Time, error) {
	return nil, nil
}

func copyOrder(o *Order) *Order {
	dup := *o
	dup.Tickets = append([]Ticket(nil), o.Tickets...)
	return &dup
}

type fakeSessionDir struct {
	sessions map[uuid.UUID]*sessions.Session
}

func (d *fakeSessionDir) GetSession(ctx context.Context, id uuid.UUID) (*sessions.Session, error) {
	session, ok := d.sessions[id]
	if !ok {
		return nil, sessions.ErrSessionNotFound
	}
	return session, nil
}

type fakeSeatDir struct {
	seats map[uuid.UUID]theatres.Seat
}

func (d *fakeSeatDir) GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]theatres.Seat, error) {
	var result []theatres.Seat
	for _, id := range ids {
		if seat, ok := d.seats[id]; ok {
			result = append(result, seat)
		}
	}
	return result, nil
}

type fakeNotifier struct {
	confirmed []OrderNotification
	updated   []OrderNotification
}

func (n *fakeNotifier) OrderConfirmed(ctx context.Context, notification OrderNotification) error {
	n.confirmed = append(n.confirmed, notification)
	return nil
}

func (n *fakeNotifier) OrderUpdated(ctx context.Context, notification OrderNotification) error {
	n.updated = append(n.updated, notification)
	return nil
}

// fixture wires a service over one hall with four seats and one session
type fixture struct {
	svc      *service
	repo     *fakeRepo
	notifier *fakeNotifier
	now      time.Time

	sessionID uuid.UUID
	hallID    uuid.UUID
	seatIDs   []uuid.UUID
	userID    uuid.UUID
}

func newFixture(t *testing.T, is3D bool) *fixture {
	t.Helper()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	hallID := uuid.New()
	sessionID := uuid.New()
	userID := uuid.New()

	standard := &theatres.SeatType{ID: uuid.New(), Name: "Standard", Cost2D: 10.00, Cost3D: 13.00}
	premium := &theatres.SeatType{ID: uuid.New(), Name: "Premium", Cost2D: 15.00, Cost3D: 19.00}

	seatDir := &fakeSeatDir{seats: make(map[uuid.UUID]theatres.Seat)}
	var seatIDs []uuid.UUID
	for i := 0; i < 4; i++ {
		seatType := standard
		if i >= 2 {
			seatType = premium
		}
		seat := theatres.Seat{
			ID:     uuid.New(),
			HallID: hallID,
			Row:    1,
			Number: i + 1,
			TypeID: seatType.ID,
			Type:   seatType,
		}
		seatDir.seats[seat.ID] = seat
		seatIDs = append(seatIDs, seat.ID)
	}

	sessionDir := &fakeSessionDir{sessions: map[uuid.UUID]*sessions.Session{
		sessionID: {
			ID:       sessionID,
			MovieID:  uuid.New(),
			HallID:   hallID,
			StartsAt: now.Add(3 * time.Hour),
			Is3D:     is3D,
		},
	}}

	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	cfg := config.BookingConfig{
		PaymentTimeout: 15 * time.Minute,
		RefundTimeout:  time.Hour,
		SweepCeiling:   5 * time.Minute,
	}

	svc := NewService(repo, sessionDir, seatDir, notifier, cfg, logger.GetDefault()).(*service)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:       svc,
		repo:      repo,
		notifier:  notifier,
		now:       now,
		sessionID: sessionID,
		hallID:    hallID,
		seatIDs:   seatIDs,
		userID:    userID,
	}
}

func (f *fixture) purchaser() Purchaser {
	return Purchaser{UserID: &f.userID, Email: "alice@example.com"}
}

func (f *fixture) placeOrder(t *testing.T, seatIdx ...int) *OrderResponse {
	t.Helper()
	seatIDs := make([]string, 0, len(seatIdx))
	for _, i := range seatIdx {
		seatIDs = append(seatIDs, f.seatIDs[i].String())
	}
	resp, err := f.svc.PlaceOrder(context.Background(), f.purchaser(), PlaceOrderRequest{
		SessionID: f.sessionID.String(),
		SeatIDs:   seatIDs,
	})
	require.NoError(t, err)
	return resp
}

func TestPlaceOrderSnapshotsPricing(t *testing.T) {
	f := newFixture(t, false)

	resp := f.placeOrder(t, 0, 2) // one standard, one premium

	assert.Equal(t, string(OrderCreated), resp.State)
	assert.Equal(t, 25.00, resp.TotalCost) // 10.00 + 15.00
	assert.Len(t, resp.Tickets, 2)
	assert.False(t, resp.Guest)
}

func TestPlaceOrderUses3DPricing(t *testing.T) {
	f := newFixture(t, true)

	resp := f.placeOrder(t, 0, 2)

	assert.Equal(t, 32.00, resp.TotalCost) // 13.00 + 19.00
}

func TestPlaceOrderGuestRequiresEmail(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.PlaceOrder(context.Background(), Purchaser{}, PlaceOrderRequest{
		SessionID: f.sessionID.String(),
		SeatIDs:   []string{f.seatIDs[0].String()},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPlaceOrderGuestCheckout(t *testing.T) {
	f := newFixture(t, false)

	resp, err := f.svc.PlaceOrder(context.Background(), Purchaser{Email: "guest@example.com"}, PlaceOrderRequest{
		SessionID: f.sessionID.String(),
		SeatIDs:   []string{f.seatIDs[0].String()},
	})
	require.NoError(t, err)
	assert.True(t, resp.Guest)
}

func TestPlaceOrderRejectsDuplicateSeats(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.PlaceOrder(context.Background(), f.purchaser(), PlaceOrderRequest{
		SessionID: f.sessionID.String(),
		SeatIDs:   []string{f.seatIDs[0].String(), f.seatIDs[0].String()},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPlaceOrderRejectsUnknownSession(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.PlaceOrder(context.Background(), f.purchaser(), PlaceOrderRequest{
		SessionID: uuid.NewString(),
		SeatIDs:   []string{f.seatIDs[0].String()},
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPlaceOrderRejectsUnknownSeat(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.PlaceOrder(context.Background(), f.purchaser(), PlaceOrderRequest{
		SessionID: f.sessionID.String(),
		SeatIDs:   []string{uuid.NewString()},
	})
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestPlaceOrderRejectsTakenSeat(t *testing.T) {
	f := newFixture(t, false)

	f.placeOrder(t, 0)

	_, err := f.svc.PlaceOrder(context.Background(), f.purchaser(), PlaceOrderRequest{
		SessionID: f.sessionID.String(),
		SeatIDs:   []string{f.seatIDs[0].String()},
	})
	assert.ErrorIs(t, err, ErrSeatUnavailable)
}

func TestPlaceOrderRejectsStartedSession(t *testing.T) {
	f := newFixture(t, false)
	f.svc.now = func() time.Time { return f.now.Add(4 * time.Hour) }

	_, err := f.svc.PlaceOrder(context.Background(), f.purchaser(), PlaceOrderRequest{
		SessionID: f.sessionID.String(),
		SeatIDs:   []string{f.seatIDs[0].String()},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancelledSeatCanBeRebooked(t *testing.T) {
	f := newFixture(t, false)

	first := f.placeOrder(t, 0)
	firstID := uuid.MustParse(first.ID)

	_, err := f.svc.CancelPayment(context.Background(), f.purchaser(), firstID)
	require.NoError(t, err)

	second := f.placeOrder(t, 0)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestConfirmPaymentTransitionsToRefundable(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0, 1)
	orderID := uuid.MustParse(placed.ID)

	confirmed, err := f.svc.ConfirmPayment(context.Background(), f.purchaser(), orderID, ConfirmPaymentRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(OrderRefundable), confirmed.State)

	require.Len(t, f.notifier.confirmed, 1)
	assert.Equal(t, orderID, f.notifier.confirmed[0].OrderID)
	assert.Equal(t, 2, f.notifier.confirmed[0].TicketCount)
}

func TestConfirmPaymentAfterDeadlineRejected(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0)
	orderID := uuid.MustParse(placed.ID)

	f.svc.now = func() time.Time { return f.now.Add(16 * time.Minute) }

	_, err := f.svc.ConfirmPayment(context.Background(), f.purchaser(), orderID, ConfirmPaymentRequest{})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfirmPaymentTwiceRejected(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0)
	orderID := uuid.MustParse(placed.ID)

	_, err := f.svc.ConfirmPayment(context.Background(), f.purchaser(), orderID, ConfirmPaymentRequest{})
	require.NoError(t, err)

	_, err = f.svc.ConfirmPayment(context.Background(), f.purchaser(), orderID, ConfirmPaymentRequest{})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfirmPaymentLostToConcurrentSweep(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0)
	orderID := uuid.MustParse(placed.ID)

	// A sweep pass cancels the order after ConfirmPayment's state check
	// but before the confirm write lands
	f.repo.beforeConfirm = func() {
		stored := f.repo.orders[orderID]
		stored.State = OrderCancelled
		for i := range stored.Tickets {
			stored.Tickets[i].State = TicketCancelled
		}
	}

	_, err := f.svc.ConfirmPayment(context.Background(), f.purchaser(), orderID, ConfirmPaymentRequest{})
	assert.ErrorIs(t, err, ErrInvalidState)

	// The cancellation sticks; the confirm must not resurrect the order
	stored, err := f.repo.GetOrderByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, OrderCancelled, stored.State)
	assert.Empty(t, stored.ActiveTickets())
	assert.Empty(t, f.notifier.confirmed)
}

func TestCancelPaymentReleasesTickets(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0, 1)
	orderID := uuid.MustParse(placed.ID)

	cancelled, err := f.svc.CancelPayment(context.Background(), f.purchaser(), orderID)
	require.NoError(t, err)
	assert.Equal(t, string(OrderCancelled), cancelled.State)
	for _, ticket := range cancelled.Tickets {
		assert.Equal(t, string(TicketCancelled), ticket.State)
	}
	assert.Len(t, f.notifier.updated, 1)
}

func TestRefundSplitConservesTickets(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0, 1, 2)
	orderID := uuid.MustParse(placed.ID)

	_, err := f.svc.ConfirmPayment(context.Background(), f.purchaser(), orderID, ConfirmPaymentRequest{})
	require.NoError(t, err)

	refundTime := f.now.Add(30 * time.Minute)
	f.svc.now = func() time.Time { return refundTime }

	refundTicket := placed.Tickets[0]
	result, err := f.svc.Refund(context.Background(), f.purchaser(), orderID, RefundRequest{
		TicketIDs: []string{refundTicket.ID},
	})
	require.NoError(t, err)

	// The kept tickets move to a fresh refundable order stamped with a new
	// purchase timestamp
	assert.NotEqual(t, placed.ID, result.ID)
	assert.Equal(t, string(OrderRefundable), result.State)
	assert.Len(t, result.Tickets, 2)
	assert.Equal(t, placed.TotalCost-refundTicket.Cost, result.TotalCost)
	assert.True(t, result.PurchaseDate.Equal(refundTime))

	// The original order is closed
	original, err := f.repo.GetOrderByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, OrderCancelled, original.State)

	// The notification describes the order the purchaser still holds
	require.Len(t, f.notifier.updated, 1)
	assert.Equal(t, uuid.MustParse(result.ID), f.notifier.updated[0].OrderID)
	assert.Equal(t, 2, f.notifier.updated[0].TicketCount)
	assert.Equal(t, result.TotalCost, f.notifier.updated[0].TotalCost)
}

func TestFullRefundClosesOrderWithoutReplacement(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0, 1)
	orderID := uuid.MustParse(placed.ID)

	_, err := f.svc.ConfirmPayment(context.Background(), f.purchaser(), orderID, ConfirmPaymentRequest{})
	require.NoError(t, err)

	result, err := f.svc.Refund(context.Background(), f.purchaser(), orderID, RefundRequest{
		TicketIDs: []string{placed.Tickets[0].ID, placed.Tickets[1].ID},
	})
	require.NoError(t, err)

	assert.Equal(t, placed.ID, result.ID)
	assert.Equal(t, string(OrderCancelled), result.State)
	for _, ticket := range result.Tickets {
		assert.Equal(t, string(TicketCancelled), ticket.State)
	}

	require.Len(t, f.notifier.updated, 1)
	assert.Equal(t, orderID, f.notifier.updated[0].OrderID)
	assert.Zero(t, f.notifier.updated[0].TicketCount)
}

func TestRefundUnknownTicketRejected(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0)
	orderID := uuid.MustParse(placed.ID)

	_, err := f.svc.ConfirmPayment(context.Background(), f.purchaser(), orderID, ConfirmPaymentRequest{})
	require.NoError(t, err)

	_, err = f.svc.Refund(context.Background(), f.purchaser(), orderID, RefundRequest{
		TicketIDs: []string{uuid.NewString()},
	})
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestRefundPastCutoffRejected(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0)
	orderID := uuid.MustParse(placed.ID)

	_, err := f.svc.ConfirmPayment(context.Background(), f.purchaser(), orderID, ConfirmPaymentRequest{})
	require.NoError(t, err)

	// Session starts at now+3h, refund window is 1h; 2h30m in is too late
	f.svc.now = func() time.Time { return f.now.Add(2*time.Hour + 30*time.Minute) }

	_, err = f.svc.Refund(context.Background(), f.purchaser(), orderID, RefundRequest{
		TicketIDs: []string{placed.Tickets[0].ID},
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRefundUnconfirmedOrderRejected(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0)
	orderID := uuid.MustParse(placed.ID)

	_, err := f.svc.Refund(context.Background(), f.purchaser(), orderID, RefundRequest{
		TicketIDs: []string{placed.Tickets[0].ID},
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestOrdersAreHiddenFromOtherUsers(t *testing.T) {
	f := newFixture(t, false)

	placed := f.placeOrder(t, 0)
	orderID := uuid.MustParse(placed.ID)

	otherID := uuid.New()
	other := Purchaser{UserID: &otherID, Email: "mallory@example.com"}

	_, err := f.svc.GetOrder(context.Background(), other, orderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.svc.ConfirmPayment(context.Background(), other, orderID, ConfirmPaymentRequest{})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGuestConfirmUpdatesContactEmail(t *testing.T) {
	f := newFixture(t, false)

	placed, err := f.svc.PlaceOrder(context.Background(), Purchaser{Email: "guest@example.com"}, PlaceOrderRequest{
		SessionID: f.sessionID.String(),
		SeatIDs:   []string{f.seatIDs[0].String()},
	})
	require.NoError(t, err)
	orderID := uuid.MustParse(placed.ID)

	_, err = f.svc.ConfirmPayment(context.Background(), Purchaser{Email: "guest@example.com"}, orderID, ConfirmPaymentRequest{
		ContactEmail: "tickets@example.com",
	})
	require.NoError(t, err)

	require.Len(t, f.notifier.confirmed, 1)
	assert.Equal(t, "tickets@example.com", f.notifier.confirmed[0].Email)
}

func TestGetUserOrders(t *testing.T) {
	f := newFixture(t, false)

	f.placeOrder(t, 0)
	f.placeOrder(t, 1)

	orders, err := f.svc.GetUserOrders(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
