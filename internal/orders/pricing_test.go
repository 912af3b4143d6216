package orders

import (
	"testing"

	"screenly/internal/theatres"

	"github.com/stretchr/testify/assert"
)

func TestTicketCost(t *testing.T) {
	premium := theatres.SeatType{Name: "Premium", Cost2D: 14.00, Cost3D: 18.00}

	assert.Equal(t, 14.00, TicketCost(premium, false))
	assert.Equal(t, 18.00, TicketCost(premium, true))
}

func TestOrderTotalCostCountsOnlyActiveTickets(t *testing.T) {
	order := Order{
		Tickets: []Ticket{
			{Cost: 10, State: TicketActive},
			{Cost: 12, State: TicketActive},
			{Cost: 9, State: TicketCancelled},
		},
	}

	assert.Equal(t, 22.0, order.TotalCost())
	assert.Len(t, order.ActiveTickets(), 2)
}
