package domain

import (
	"reflect"
	"testing"
)

func TestSetStatus(t *testing.T) {
	t.Parallel()

	ticket := Ticket{Status: TicketStatusOpen}
	if err := (SetStatus{Status: TicketStatusResolved}).Apply(&ticket); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if ticket.Status != TicketStatusResolved {
		t.Fatalf("status = %s", ticket.Status)
	}

	if err := (SetStatus{Status: "archived"}).Apply(&ticket); err == nil {
		t.Fatal("unknown status accepted")
	}
	if ticket.Status != TicketStatusResolved {
		t.Fatalf("rejected payload mutated the ticket: %s", ticket.Status)
	}
}

func TestSetAssignee(t *testing.T) {
	t.Parallel()

	agent := "agent-001"
	ticket := Ticket{}

	if err := (SetAssignee{AssigneeID: &agent}).Apply(&ticket); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !ticket.Assigned() || *ticket.AssigneeID == "" {
		t.Fatal("assignment not applied")
	}
	if ticket.AssigneeID == &agent {
		t.Fatal("assignee pointer aliases the payload")
	}

	empty := ""
	if err := (SetAssignee{AssigneeID: &empty}).Apply(&ticket); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if ticket.Assigned() {
		t.Fatal("empty assignee did not clear the assignment")
	}
}

func TestSetPriority(t *testing.T) {
	t.Parallel()

	ticket := Ticket{Priority: TicketPriorityLow}
	if err := (SetPriority{Priority: TicketPriorityUrgent}).Apply(&ticket); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if ticket.Priority != TicketPriorityUrgent {
		t.Fatalf("priority = %s", ticket.Priority)
	}
	if err := (SetPriority{Priority: "asap"}).Apply(&ticket); err == nil {
		t.Fatal("unknown priority accepted")
	}
}

func TestSetFieldsLeavesNilFieldsUntouched(t *testing.T) {
	t.Parallel()

	ticket := Ticket{
		Subject:     "Printer offline",
		Description: "not reachable",
		Tags:        []string{"hardware"},
		Channel:     "email",
	}

	subject := "Printer offline in building B"
	tags := []string{"hardware", "printer"}
	if err := (SetFields{Subject: &subject, Tags: tags}).Apply(&ticket); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if ticket.Subject != subject {
		t.Fatalf("subject = %q", ticket.Subject)
	}
	if ticket.Description != "not reachable" || ticket.Channel != "email" {
		t.Fatalf("untouched fields changed: %+v", ticket)
	}
	if !reflect.DeepEqual(ticket.Tags, tags) {
		t.Fatalf("tags = %v", ticket.Tags)
	}

	tags[0] = "mutated"
	if ticket.Tags[0] != "hardware" {
		t.Fatal("tags slice aliases the payload")
	}
}
