package domain

import "time"

// InternalNote is an agent-only annotation attached to a ticket. Its
// content can be edited after creation; ticket and author cannot.
type InternalNote struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy of the note record.
func (n *InternalNote) Clone() InternalNote {
	return *n
}
