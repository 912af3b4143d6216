package orders

// OrderState is the lifecycle state of a purchase attempt
type OrderState string

const (
	OrderCreated       OrderState = "CREATED"
	OrderCancelled     OrderState = "CANCELLED"
	OrderRefundable    OrderState = "REFUNDABLE"
	OrderNonRefundable OrderState = "NON_REFUNDABLE"
)

// TicketState is the lifecycle state of a single seat reservation
type TicketState string

const (
	TicketActive    TicketState = "ACTIVE"
	TicketCancelled TicketState = "CANCELLED"
)

// orderTransitions is the only source of truth for legal state changes.
// CANCELLED and NON_REFUNDABLE are terminal; a refund split creates a new
// order rather than reopening the old one.
var orderTransitions = map[OrderState][]OrderState{
	OrderCreated:       {OrderRefundable, OrderCancelled},
	OrderRefundable:    {OrderCancelled, OrderNonRefundable},
	OrderCancelled:     {},
	OrderNonRefundable: {},
}

// IsValid checks if the order state is a known state
func (s OrderState) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// String returns the string representation of OrderState
func (s OrderState) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions exist from this state
func (s OrderState) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransition checks if a transition from s to target is legal
func (s OrderState) CanTransition(target OrderState) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
