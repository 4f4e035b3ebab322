package events

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventTicketsBulkUpdated  EventType = "tickets_bulk_updated"
	EventNoteAdded           EventType = "note_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject    string                `json:"subject"`
	Priority   domain.TicketPriority `json:"priority"`
	CustomerID string                `json:"customer_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// TicketsBulkUpdatedPayload payload.
type TicketsBulkUpdatedPayload struct {
	Requested int      `json:"requested"`
	Updated   int      `json:"updated"`
	TicketIDs []string `json:"ticket_ids"`
}

// NoteAddedPayload payload.
type NoteAddedPayload struct {
	NoteID   string `json:"note_id"`
	AuthorID string `json:"author_id"`
	Preview  string `json:"preview"`
}
