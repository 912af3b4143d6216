package orders

import "errors"

// Expected outcomes surfaced to the caller; controllers map these to HTTP
// statuses. Anything else is treated as an infrastructure failure, logged
// in full and converted to a generic response at the boundary.
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrTicketNotFound  = errors.New("ticket does not belong to order")
	ErrSeatNotFound    = errors.New("seat does not exist in the session's hall")
	ErrInvalidState    = errors.New("operation not allowed in current order state")
	ErrSeatUnavailable = errors.New("seat is no longer available")
	ErrValidation      = errors.New("invalid order request")
)
