package domain

import (
	"math"
	"time"
)

// Ticket states follow an ordinal progression; anything below
// TicketStateClosed counts as open.
const (
	TicketStateUnpaid = 0
	TicketStateLocked = 1
	TicketStateClosed = 2
)

// Ticket is the aggregate for a single bill. A ticket with ID 0 has not
// been persisted yet. All nested collections are loaded eagerly before the
// aggregate is handed to callers; nothing here triggers further retrieval.
type Ticket struct {
	ID              int
	TicketNumber    string
	Date            time.Time
	LastOrderDate   time.Time
	LastPaymentDate time.Time
	State           int
	IsClosed        bool
	RemainingAmount float64
	TotalAmount     float64
	AccountID       int
	AccountName     string
	Note            string
	DepartmentID    int

	Orders          []Order
	TicketResources []TicketResource
	Payments        []Payment
	ChangePayments  []ChangePayment
	Calculations    []Calculation
	TicketTags      []TicketTagValue
}

// NewTicket starts an unpaid ticket bound to a department.
func NewTicket(departmentID int) *Ticket {
	now := time.Now()
	return &Ticket{
		Date:          now,
		LastOrderDate: now,
		State:         TicketStateUnpaid,
		DepartmentID:  departmentID,
	}
}

// IsOpen reports whether the ticket is still in service.
func (t *Ticket) IsOpen() bool {
	return t.State < TicketStateClosed
}

// Sum returns the total monetary value implied by the current line items
// and calculations, rounded to cents.
func (t *Ticket) Sum() float64 {
	sum := 0.0
	for i := range t.Orders {
		sum += t.Orders[i].Value()
	}
	for i := range t.Calculations {
		sum += t.Calculations[i].Amount
	}
	return roundMoney(sum)
}

// ResourceIDSet returns the ids of the resources the ticket is attached
// to. Resource membership is a set keyed by ResourceID.
func (t *Ticket) ResourceIDSet() map[int]struct{} {
	set := make(map[int]struct{}, len(t.TicketResources))
	for i := range t.TicketResources {
		set[t.TicketResources[i].ResourceID] = struct{}{}
	}
	return set
}

// HasResource reports whether the ticket is attached to the resource.
func (t *Ticket) HasResource(resourceID int) bool {
	_, ok := t.ResourceIDSet()[resourceID]
	return ok
}

// AddResource attaches the ticket to a resource, replacing a previous
// association with the same ResourceID.
func (t *Ticket) AddResource(resource TicketResource) {
	for i := range t.TicketResources {
		if t.TicketResources[i].ResourceID == resource.ResourceID {
			t.TicketResources[i] = resource
			return
		}
	}
	t.TicketResources = append(t.TicketResources, resource)
}

// PaymentIDSet returns the distinct ids of payments the ticket knows about.
func (t *Ticket) PaymentIDSet() map[int]struct{} {
	set := make(map[int]struct{}, len(t.Payments))
	for i := range t.Payments {
		set[t.Payments[i].ID] = struct{}{}
	}
	return set
}

// AddOrder appends a line item and advances the last order date.
func (t *Ticket) AddOrder(order Order) {
	t.Orders = append(t.Orders, order)
	t.LastOrderDate = time.Now()
	t.Recalculate()
}

// AddPayment records a payment and advances the last payment date.
func (t *Ticket) AddPayment(payment Payment) {
	t.Payments = append(t.Payments, payment)
	t.LastPaymentDate = payment.Date
	t.Recalculate()
}

// AddCalculation appends a service charge or discount line.
func (t *Ticket) AddCalculation(calculation Calculation) {
	t.Calculations = append(t.Calculations, calculation)
	t.Recalculate()
}

// Recalculate refreshes TotalAmount and RemainingAmount from line items
// and payments.
func (t *Ticket) Recalculate() {
	t.TotalAmount = t.Sum()
	paid := 0.0
	for i := range t.Payments {
		paid += t.Payments[i].Amount
	}
	for i := range t.ChangePayments {
		paid -= t.ChangePayments[i].Amount
	}
	t.RemainingAmount = roundMoney(t.TotalAmount - paid)
}

// Close settles the ticket. Tickets close when nothing remains to pay or
// when explicitly voided; they are never deleted afterwards.
func (t *Ticket) Close() {
	t.State = TicketStateClosed
	t.IsClosed = true
}

// SetTagValue records a tag value on the ticket, replacing an existing
// value for the same tag name.
func (t *Ticket) SetTagValue(tagName, tagValue string) {
	for i := range t.TicketTags {
		if t.TicketTags[i].TagName == tagName {
			t.TicketTags[i].TagValue = tagValue
			return
		}
	}
	t.TicketTags = append(t.TicketTags, TicketTagValue{TagName: tagName, TagValue: tagValue})
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
