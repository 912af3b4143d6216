package orders

import "screenly/internal/theatres"

// TicketCost resolves the price of a seat for a session format. The price
// is read from the seat's type at purchase time and snapshotted onto the
// ticket; later seat type edits never reprice sold tickets.
func TicketCost(seatType theatres.SeatType, is3D bool) float64 {
	if is3D {
		return seatType.Cost3D
	}
	return seatType.Cost2D
}
