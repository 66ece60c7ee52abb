package events

import "time"

// EventType identifies ticket lifecycle events.
type EventType string

const (
	EventTicketSaved    EventType = "TICKET_SAVED"
	EventTicketConflict EventType = "TICKET_CONFLICT"
	EventFreeTagSaved   EventType = "FREE_TAG_SAVED"
)

// Event is the envelope handed to subscribers.
type Event struct {
	ID        string
	Type      EventType
	TicketID  int
	Timestamp time.Time
	Payload   any
}

// TicketSavedPayload accompanies EventTicketSaved.
type TicketSavedPayload struct {
	ResourceIDs     []int
	IsClosed        bool
	RemainingAmount float64
}

// TicketConflictPayload accompanies EventTicketConflict.
type TicketConflictPayload struct {
	Rule    string
	Message string
}

// FreeTagSavedPayload accompanies EventFreeTagSaved.
type FreeTagSavedPayload struct {
	GroupID int
	Kind    string
	TagName string
}
