package domain

import "time"

// Payment is money received against a ticket. Payments are append-only;
// once recorded they are kept for audit even when the ticket is voided.
type Payment struct {
	ID       int
	TicketID int
	Name     string
	Amount   float64
	Date     time.Time
}

// ChangePayment is money returned to the counterparty when a payment
// exceeds the remaining amount.
type ChangePayment struct {
	ID       int
	TicketID int
	Name     string
	Amount   float64
	Date     time.Time
}

// Calculation is a computed adjustment on the ticket total, such as a
// service charge or a discount. Discounts carry negative amounts.
type Calculation struct {
	ID       int
	TicketID int
	Name     string
	Amount   float64
}
