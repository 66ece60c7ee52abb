package domain

// TicketResource associates a ticket with a physical or logical location
// such as a table. A ticket's resource set is keyed by ResourceID; the
// name is denormalized for display.
type TicketResource struct {
	TicketID     int
	ResourceID   int
	ResourceName string
	AccountID    int
}
