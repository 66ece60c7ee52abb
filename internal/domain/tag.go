package domain

// TicketTagGroup defines an allowed tag vocabulary for tickets. Free-form
// tags are registered lazily under their group the first time they are
// used.
type TicketTagGroup struct {
	ID          int
	Name        string
	FreeTagging bool
	TicketTags  []TicketTag
}

// TicketTag is a named tag belonging to a ticket tag group.
type TicketTag struct {
	ID      int
	GroupID int
	Name    string
}

// TicketTagValue is a tag value recorded on a ticket.
type TicketTagValue struct {
	TicketID int
	TagName  string
	TagValue string
}

// OrderTagGroup defines an allowed tag vocabulary for order lines.
type OrderTagGroup struct {
	ID          int
	Name        string
	FreeTagging bool
	OrderTags   []OrderTag
}

// OrderTag is a named tag belonging to an order tag group, optionally
// carrying a surcharge applied when the tag is used on a line.
type OrderTag struct {
	ID      int
	GroupID int
	Name    string
	Price   float64
}
