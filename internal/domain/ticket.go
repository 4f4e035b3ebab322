package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// Valid reports whether the status is one of the four known values.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Valid reports whether the priority is one of the four known values.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string         `json:"id"`
	Subject     string         `json:"subject"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	Tags        []string       `json:"tags"`
	CustomerID  string         `json:"customerId"`
	AssigneeID  *string        `json:"assigneeId"`
	Channel     string         `json:"channel"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Assigned reports whether the ticket has a non-empty assignee.
func (t *Ticket) Assigned() bool {
	return t.AssigneeID != nil && *t.AssigneeID != ""
}

// Clone returns a deep copy so store internals never leak by reference.
func (t *Ticket) Clone() Ticket {
	copied := *t
	if t.Tags != nil {
		copied.Tags = append([]string(nil), t.Tags...)
	}
	if t.AssigneeID != nil {
		assignee := *t.AssigneeID
		copied.AssigneeID = &assignee
	}
	return copied
}
