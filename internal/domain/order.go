package domain

import "time"

// Order is a single line item on a ticket.
type Order struct {
	ID                int
	TicketID          int
	MenuItemName      string
	PortionName       string
	Price             float64
	Quantity          float64
	OrderNumber       int
	CreatedAt         time.Time
	OrderTagValues    []OrderTagValue
	ProductTimerValue *ProductTimerValue
}

// Value returns the monetary value of the line: the unit price (timer
// adjusted when a product timer is attached) plus tag surcharges, times
// quantity.
func (o *Order) Value() float64 {
	price := o.Price
	if o.ProductTimerValue != nil {
		price = o.ProductTimerValue.Price(o.Price)
	}
	for i := range o.OrderTagValues {
		price += o.OrderTagValues[i].Price * o.OrderTagValues[i].Quantity
	}
	return price * o.Quantity
}

// OrderTagValue is a tag applied to an order line, optionally carrying a
// surcharge.
type OrderTagValue struct {
	ID       int
	OrderID  int
	TagName  string
	TagValue string
	Price    float64
	Quantity float64
}

// ProductTimerValue tracks timed pricing for a line item. The base price
// covers PriceDuration minutes; elapsed time beyond that multiplies it.
type ProductTimerValue struct {
	ID            int
	OrderID       int
	Start         time.Time
	Stop          time.Time
	PriceDuration int
}

// Price returns the timer-adjusted unit price for the given base price.
// A stopped timer is required for a deterministic value; a running timer
// charges a single period.
func (p *ProductTimerValue) Price(base float64) float64 {
	if p.PriceDuration <= 0 {
		return base
	}
	if p.Stop.IsZero() || !p.Stop.After(p.Start) {
		return base
	}
	minutes := int(p.Stop.Sub(p.Start).Minutes())
	periods := minutes / p.PriceDuration
	if minutes%p.PriceDuration > 0 {
		periods++
	}
	if periods < 1 {
		periods = 1
	}
	return base * float64(periods)
}
