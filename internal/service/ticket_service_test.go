package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/spec-kit/support-desk/internal/clock"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/search"
	"github.com/spec-kit/support-desk/internal/similarity"
	"github.com/spec-kit/support-desk/pkg/util"
)

var baseTime = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func strptr(s string) *string { return &s }

func seedTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: "T1", Subject: "Cannot login to account", Description: "password rejected at login", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityHigh, Tags: []string{"account"}, CustomerID: "C1", AssigneeID: strptr("A1"), CreatedAt: baseTime, UpdatedAt: baseTime},
		{ID: "T2", Subject: "Billing question about invoice", Description: "charged twice", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityMedium, Tags: []string{"billing"}, CustomerID: "C2", CreatedAt: baseTime, UpdatedAt: baseTime},
		{ID: "T3", Subject: "Dashboard slow", Description: "widgets time out", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow, CustomerID: "C1", CreatedAt: baseTime, UpdatedAt: baseTime},
	}
}

type testEnv struct {
	svc        *TicketService
	clk        *clock.FakeClock
	dispatcher events.Dispatcher
	published  *[]events.Event
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	clk := clock.Fake(baseTime)
	dispatcher := events.NewMemoryDispatcher()
	var published []events.Event
	record := func(ctx context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
		events.EventTicketDeleted,
		events.EventTicketsBulkUpdated,
	} {
		dispatcher.Subscribe(eventType, record)
	}

	svc := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewTicketRepository(clk, seedTickets()),
		CustomerRepo: repository.NewCustomerRepository([]domain.Customer{
			{ID: "C1", Name: "Sarah Mitchell"},
			{ID: "C2", Name: "James Okafor"},
		}),
		AgentRepo: repository.NewAgentRepository([]domain.Agent{
			{ID: "A1", Name: "Dana Kim"},
		}),
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(),
		Clock:      clk,
		Latency:    config.LatencyConfig{Enabled: false},
	})
	return testEnv{svc: svc, clk: clk, dispatcher: dispatcher, published: &published}
}

func TestTicketService_CreateForcesOpenStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	tests := []domain.TicketStatus{"", domain.TicketStatusClosed, domain.TicketStatusResolved, "made-up"}
	for _, supplied := range tests {
		created, err := env.svc.Create(ctx, TicketCreateInput{
			Subject:     "Printer offline",
			Description: "Office printer not reachable",
			Status:      supplied,
			CustomerID:  "C1",
		})
		if err != nil {
			t.Fatalf("Create with status %q: %v", supplied, err)
		}
		if created.Status != domain.TicketStatusOpen {
			t.Fatalf("status %q not forced to open, got %s", supplied, created.Status)
		}
	}
}

func TestTicketService_CreateDefaultsAndEvents(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, TicketCreateInput{
		Subject:     "  Printer offline  ",
		Description: "Office printer not reachable",
		CustomerID:  "C1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Subject != "Printer offline" {
		t.Fatalf("subject not trimmed: %q", created.Subject)
	}
	if created.Priority != domain.TicketPriorityMedium {
		t.Fatalf("expected default medium priority, got %s", created.Priority)
	}
	if created.ID == "" || !created.CreatedAt.Equal(baseTime) || !created.UpdatedAt.Equal(baseTime) {
		t.Fatalf("identity/timestamps not assigned: %+v", created)
	}

	if len(*env.published) != 1 || (*env.published)[0].Type != events.EventTicketCreated {
		t.Fatalf("expected one ticket_created event, got %+v", *env.published)
	}
}

func TestTicketService_CreateValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	longSubject := make([]byte, 101)
	for i := range longSubject {
		longSubject[i] = 'x'
	}

	tests := []struct {
		name  string
		input TicketCreateInput
	}{
		{"empty subject", TicketCreateInput{Description: "d", CustomerID: "C1"}},
		{"missing customer", TicketCreateInput{Subject: "s", Description: "d"}},
		{"missing description", TicketCreateInput{Subject: "s", CustomerID: "C1"}},
		{"subject too long", TicketCreateInput{Subject: string(longSubject), Description: "d", CustomerID: "C1"}},
		{"unknown priority", TicketCreateInput{Subject: "s", Description: "d", CustomerID: "C1", Priority: "asap"}},
	}

	before, _ := env.svc.GetAll(ctx)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Create(ctx, tt.input)
			if !util.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	after, _ := env.svc.GetAll(ctx)
	if len(after) != len(before) {
		t.Fatalf("rejected payloads reached the store: %d -> %d", len(before), len(after))
	}
}

func TestTicketService_UpdateRefreshesUpdatedAt(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	env.clk.Advance(time.Minute)
	updated, err := env.svc.Update(ctx, "T2", domain.SetStatus{Status: domain.TicketStatusInProgress})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.UpdatedAt.After(baseTime) {
		t.Fatalf("UpdatedAt not refreshed: %v", updated.UpdatedAt)
	}

	all, _ := env.svc.GetAll(ctx)
	for _, ticket := range all {
		if ticket.ID != "T2" && !ticket.UpdatedAt.Equal(baseTime) {
			t.Fatalf("unrelated ticket %s UpdatedAt changed: %v", ticket.ID, ticket.UpdatedAt)
		}
	}

	if len(*env.published) != 1 || (*env.published)[0].Type != events.EventTicketStatusChanged {
		t.Fatalf("expected ticket_status_changed event, got %+v", *env.published)
	}
	payload := (*env.published)[0].Payload.(events.TicketStatusChangedPayload)
	if payload.OldStatus != domain.TicketStatusOpen || payload.NewStatus != domain.TicketStatusInProgress {
		t.Fatalf("wrong status transition in event: %+v", payload)
	}
}

func TestTicketService_UpdateAssignee(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	updated, err := env.svc.Update(ctx, "T2", domain.SetAssignee{AssigneeID: strptr("A1")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Assigned() || *updated.AssigneeID != "A1" {
		t.Fatalf("assignment not applied: %+v", updated.AssigneeID)
	}

	cleared, err := env.svc.Update(ctx, "T2", domain.SetAssignee{AssigneeID: nil})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cleared.Assigned() {
		t.Fatalf("assignment not cleared: %+v", cleared.AssigneeID)
	}
}

func TestTicketService_UpdateNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.svc.Update(context.Background(), "missing", domain.SetStatus{Status: domain.TicketStatusClosed})
	if !util.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestTicketService_UpdateRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.svc.Update(context.Background(), "T1", domain.SetStatus{Status: "archived"})
	if !util.IsValidation(err) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestTicketService_BulkUpdateSkipsMissing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	before, _ := env.svc.GetAll(ctx)

	env.clk.Advance(time.Minute)
	updated, err := env.svc.BulkUpdate(ctx, []string{"T1", "T2", "missing"}, domain.SetStatus{Status: domain.TicketStatusClosed})
	if err != nil {
		t.Fatalf("BulkUpdate: %v", err)
	}

	var gotIDs []string
	for _, ticket := range updated {
		gotIDs = append(gotIDs, ticket.ID)
		if ticket.Status != domain.TicketStatusClosed {
			t.Fatalf("ticket %s not closed", ticket.ID)
		}
		if !ticket.UpdatedAt.After(baseTime) {
			t.Fatalf("ticket %s UpdatedAt not refreshed", ticket.ID)
		}
	}
	if !reflect.DeepEqual(gotIDs, []string{"T1", "T2"}) {
		t.Fatalf("expected exactly [T1 T2], got %v", gotIDs)
	}

	after, _ := env.svc.GetAll(ctx)
	if len(after) != len(before) {
		t.Fatalf("bulk update changed ticket count: %d -> %d", len(before), len(after))
	}

	last := (*env.published)[len(*env.published)-1]
	if last.Type != events.EventTicketsBulkUpdated {
		t.Fatalf("expected tickets_bulk_updated event, got %s", last.Type)
	}
	payload := last.Payload.(events.TicketsBulkUpdatedPayload)
	if payload.Requested != 3 || payload.Updated != 2 {
		t.Fatalf("wrong bulk payload: %+v", payload)
	}
}

func TestTicketService_BulkUpdateValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.BulkUpdate(ctx, nil, domain.SetStatus{Status: domain.TicketStatusClosed}); !util.IsValidation(err) {
		t.Fatalf("expected validation error for empty ids, got %v", err)
	}
	if _, err := env.svc.BulkUpdate(ctx, []string{"T1"}, domain.SetStatus{Status: "archived"}); !util.IsValidation(err) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	// A rejected payload must not half-apply.
	ticket, _ := env.svc.GetByID(ctx, "T1")
	if ticket.Status != domain.TicketStatusResolved {
		t.Fatalf("rejected bulk payload mutated the store: %s", ticket.Status)
	}
}

func TestTicketService_BulkDelete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	deleted, err := env.svc.BulkDelete(ctx, []string{"T1", "missing", "T3"})
	if err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}
	all, _ := env.svc.GetAll(ctx)
	if len(all) != 1 || all[0].ID != "T2" {
		t.Fatalf("expected only T2 to remain, got %+v", all)
	}
}

func TestTicketService_SearchAndQueries(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	found, err := env.svc.Search(ctx, "BILLING")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].ID != "T2" {
		t.Fatalf("expected T2 for billing search, got %+v", found)
	}

	open, err := env.svc.GetByStatus(ctx, domain.TicketStatusOpen)
	if err != nil {
		t.Fatalf("GetByStatus: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("expected 2 open tickets, got %d", len(open))
	}

	assigned, err := env.svc.GetByAssignee(ctx, "A1")
	if err != nil {
		t.Fatalf("GetByAssignee: %v", err)
	}
	if len(assigned) != 1 || assigned[0].ID != "T1" {
		t.Fatalf("expected T1 for A1, got %+v", assigned)
	}
}

func TestTicketService_Filter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	all, err := env.svc.Filter(ctx, search.NewFilters(), "")
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(all) != 3 || all[0].ID != "T1" || all[2].ID != "T3" {
		t.Fatalf("expected full set in store order, got %+v", all)
	}

	unassigned, err := env.svc.Filter(ctx, search.Filters{Status: search.All, Priority: search.All, Assignee: search.Unassigned}, "")
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(unassigned) != 2 {
		t.Fatalf("expected 2 unassigned tickets, got %d", len(unassigned))
	}

	byName, err := env.svc.Filter(ctx, search.NewFilters(), "sarah")
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("expected 2 tickets for customer-name query, got %d", len(byName))
	}
}

func TestTicketService_FindSimilarTickets(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	query := similarity.Query{Subject: "login account issue"}
	first, err := env.svc.FindSimilarTickets(ctx, query)
	if err != nil {
		t.Fatalf("FindSimilarTickets: %v", err)
	}
	if len(first) != 1 || first[0].Ticket.ID != "T1" {
		t.Fatalf("expected T1 as the only suggestion, got %+v", first)
	}

	second, err := env.svc.FindSimilarTickets(ctx, query)
	if err != nil {
		t.Fatalf("FindSimilarTickets: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ranking not deterministic against unchanged store")
	}
}

func TestTicketService_LatencyWaitHonorsCancellation(t *testing.T) {
	t.Parallel()

	clk := clock.Fake(baseTime)
	svc := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewTicketRepository(clk, seedTickets()),
		Metrics:    observability.NewMetrics(),
		Clock:      clk,
		Latency:    config.LatencyConfig{Enabled: true, ScalePercent: 100},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.GetAll(ctx); err == nil {
		t.Fatal("expected context error while latency pending")
	}
}
