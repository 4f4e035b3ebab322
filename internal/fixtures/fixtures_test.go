package fixtures

import "testing"

func TestLoad(t *testing.T) {
	t.Parallel()

	data, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(data.Tickets) == 0 || len(data.Customers) == 0 || len(data.Agents) == 0 || len(data.Notes) == 0 {
		t.Fatalf("empty fixture collection: %d tickets, %d customers, %d agents, %d notes",
			len(data.Tickets), len(data.Customers), len(data.Agents), len(data.Notes))
	}
}

func TestLoad_ReferentialIntegrity(t *testing.T) {
	t.Parallel()

	data, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	customers := make(map[string]bool, len(data.Customers))
	for _, c := range data.Customers {
		customers[c.ID] = true
	}
	agents := make(map[string]bool, len(data.Agents))
	for _, a := range data.Agents {
		agents[a.ID] = true
	}
	tickets := make(map[string]bool, len(data.Tickets))

	for _, ticket := range data.Tickets {
		if ticket.ID == "" || tickets[ticket.ID] {
			t.Fatalf("missing or duplicate ticket id %q", ticket.ID)
		}
		tickets[ticket.ID] = true
		if !ticket.Status.Valid() {
			t.Fatalf("ticket %s has invalid status %q", ticket.ID, ticket.Status)
		}
		if !ticket.Priority.Valid() {
			t.Fatalf("ticket %s has invalid priority %q", ticket.ID, ticket.Priority)
		}
		if !customers[ticket.CustomerID] {
			t.Fatalf("ticket %s references unknown customer %q", ticket.ID, ticket.CustomerID)
		}
		if ticket.Assigned() && !agents[*ticket.AssigneeID] {
			t.Fatalf("ticket %s references unknown agent %q", ticket.ID, *ticket.AssigneeID)
		}
	}

	for _, note := range data.Notes {
		if !tickets[note.TicketID] {
			t.Fatalf("note %s references unknown ticket %q", note.ID, note.TicketID)
		}
		if !agents[note.AuthorID] {
			t.Fatalf("note %s references unknown agent %q", note.ID, note.AuthorID)
		}
	}
}
