package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/pos-ticketing/internal/domain"
)

func TestSum_OrdersTagsAndCalculations(t *testing.T) {
	ticket := domain.NewTicket(1)
	ticket.AddOrder(domain.Order{
		MenuItemName: "Espresso",
		Price:        3.50,
		Quantity:     2,
		OrderTagValues: []domain.OrderTagValue{
			{TagName: "Extra Shot", Price: 0.75, Quantity: 1},
		},
	})
	ticket.AddCalculation(domain.Calculation{Name: "Service", Amount: 1.20})

	// (3.50 + 0.75) * 2 + 1.20
	assert.Equal(t, 9.70, ticket.Sum())
}

func TestSum_TimerAdjustedPrice(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ticket := domain.NewTicket(1)
	ticket.AddOrder(domain.Order{
		MenuItemName: "Billiard Table",
		Price:        10,
		Quantity:     1,
		ProductTimerValue: &domain.ProductTimerValue{
			Start:         start,
			Stop:          start.Add(95 * time.Minute),
			PriceDuration: 60,
		},
	})

	// 95 minutes at 10 per 60-minute period rounds up to 2 periods.
	assert.Equal(t, 20.0, ticket.Sum())
}

func TestRecalculate_PaymentsReduceRemaining(t *testing.T) {
	ticket := domain.NewTicket(1)
	ticket.AddOrder(domain.Order{MenuItemName: "Pizza", Price: 40, Quantity: 1})

	paid := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	ticket.AddPayment(domain.Payment{ID: 1, Name: "Cash", Amount: 50, Date: paid})
	ticket.ChangePayments = append(ticket.ChangePayments, domain.ChangePayment{Name: "Cash", Amount: 10, Date: paid})
	ticket.Recalculate()

	assert.Equal(t, 0.0, ticket.RemainingAmount)
	assert.Equal(t, paid, ticket.LastPaymentDate)
}

func TestClose_MarksTicketSettled(t *testing.T) {
	ticket := domain.NewTicket(1)
	assert.True(t, ticket.IsOpen())

	ticket.Close()
	assert.False(t, ticket.IsOpen())
	assert.True(t, ticket.IsClosed)
	assert.Equal(t, domain.TicketStateClosed, ticket.State)
}

func TestAddResource_ReplacesByResourceID(t *testing.T) {
	ticket := domain.NewTicket(1)
	ticket.AddResource(domain.TicketResource{ResourceID: 3, ResourceName: "Table 3"})
	ticket.AddResource(domain.TicketResource{ResourceID: 3, ResourceName: "Table 3 (patio)"})
	ticket.AddResource(domain.TicketResource{ResourceID: 4, ResourceName: "Table 4"})

	assert.Len(t, ticket.TicketResources, 2)
	assert.True(t, ticket.HasResource(3))
	assert.True(t, ticket.HasResource(4))
	assert.Equal(t, "Table 3 (patio)", ticket.TicketResources[0].ResourceName)
}

func TestSetTagValue_ReplacesByTagName(t *testing.T) {
	ticket := domain.NewTicket(1)
	ticket.SetTagValue("Waiter", "Ada")
	ticket.SetTagValue("Waiter", "Grace")

	assert.Len(t, ticket.TicketTags, 1)
	assert.Equal(t, "Grace", ticket.TicketTags[0].TagValue)
}
