package domain

import "fmt"

// TicketUpdate is one recognized mutation applied to a ticket. The set
// of implementations is closed so an update can never merge fields the
// model does not define.
type TicketUpdate interface {
	// Apply mutates the ticket in place. It returns an error only for
	// payloads that violate model invariants (e.g. an unknown status);
	// a valid payload always succeeds.
	Apply(t *Ticket) error

	ticketUpdate()
}

// SetStatus moves a ticket to a new lifecycle state.
type SetStatus struct {
	Status TicketStatus
}

func (u SetStatus) Apply(t *Ticket) error {
	if !u.Status.Valid() {
		return fmt.Errorf("invalid ticket status %q", u.Status)
	}
	t.Status = u.Status
	return nil
}

// SetAssignee assigns the ticket to an agent; nil clears the assignment.
type SetAssignee struct {
	AssigneeID *string
}

func (u SetAssignee) Apply(t *Ticket) error {
	if u.AssigneeID == nil || *u.AssigneeID == "" {
		t.AssigneeID = nil
		return nil
	}
	assignee := *u.AssigneeID
	t.AssigneeID = &assignee
	return nil
}

// SetPriority changes the ticket's urgency level.
type SetPriority struct {
	Priority TicketPriority
}

func (u SetPriority) Apply(t *Ticket) error {
	if !u.Priority.Valid() {
		return fmt.Errorf("invalid ticket priority %q", u.Priority)
	}
	t.Priority = u.Priority
	return nil
}

// SetFields updates free-form ticket fields. Nil pointers leave the
// corresponding field untouched.
type SetFields struct {
	Subject     *string
	Description *string
	Tags        []string
	Channel     *string
}

func (u SetFields) Apply(t *Ticket) error {
	if u.Subject != nil {
		t.Subject = *u.Subject
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Tags != nil {
		t.Tags = append([]string(nil), u.Tags...)
	}
	if u.Channel != nil {
		t.Channel = *u.Channel
	}
	return nil
}

func (SetStatus) ticketUpdate()   {}
func (SetAssignee) ticketUpdate() {}
func (SetPriority) ticketUpdate() {}
func (SetFields) ticketUpdate()   {}
