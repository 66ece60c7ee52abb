package domain

import "time"

// TicketTemplate binds the tag vocabularies a department serves tickets
// with. Templates are configuration; they never change during service.
type TicketTemplate struct {
	ID                int
	Name              string
	TicketTagGroupIDs []int
	OrderTagGroupIDs  []int
}

// OpenTicketRow is the projection returned by open-ticket listings: just
// enough to render a lobby screen without loading full aggregates.
type OpenTicketRow struct {
	ID              int
	TicketNumber    string
	Date            time.Time
	LastOrderDate   time.Time
	RemainingAmount float64
	TicketResources []TicketResource
	TicketTags      []TicketTagValue
}
