package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

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

// TicketService coordinates ticket workflows over the in-memory store,
// mimicking the REST client the list, table, and creation views call.
type TicketService struct {
	tickets    repository.TicketRepository
	customers  repository.CustomerRepository
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	clock      clock.Clock
	latency    latencySimulator
	suggestion config.SuggestionConfig
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CustomerRepo repository.CustomerRepository
	AgentRepo    repository.AgentRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Clock        clock.Clock
	Latency      config.LatencyConfig
	Suggestion   config.SuggestionConfig
}

// TicketCreateInput describes the ticket creation payload. Any Status
// value a caller supplies is ignored: created tickets always open.
type TicketCreateInput struct {
	Subject     string                `validate:"required,max=100"`
	Description string                `validate:"required,max=2000"`
	Status      domain.TicketStatus   `validate:"-"`
	Priority    domain.TicketPriority `validate:"omitempty,oneof=low medium high urgent"`
	Tags        []string
	CustomerID  string `validate:"required"`
	AssigneeID  *string
	Channel     string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	svc := &TicketService{
		tickets:    deps.TicketRepo,
		customers:  deps.CustomerRepo,
		agents:     deps.AgentRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		clock:      deps.Clock,
		latency:    latencySimulator{cfg: deps.Latency, clock: deps.Clock},
		suggestion: deps.Suggestion,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.clock == nil {
		svc.clock = clock.System()
		svc.latency.clock = svc.clock
	}
	if svc.suggestion.Limit <= 0 {
		svc.suggestion.Limit = similarity.DefaultLimit
	}
	return svc
}

// GetAll returns a copy of every ticket in store order.
func (s *TicketService) GetAll(ctx context.Context) ([]domain.Ticket, error) {
	s.metrics.RecordCall("ticket", "getAll", latencyTicketList)
	if err := s.latency.wait(ctx, latencyTicketList); err != nil {
		return nil, err
	}
	return s.tickets.List(ctx)
}

// GetByID fetches a single ticket.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	s.metrics.RecordCall("ticket", "getById", latencyTicketGet)
	if err := s.latency.wait(ctx, latencyTicketGet); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("getById", id, err)
	}
	return ticket, nil
}

// Create validates the payload and stores a new ticket. Status is
// forced to open and priority defaults to medium.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	s.metrics.RecordCall("ticket", "create", latencyTicketCreate)
	if err := checkInput(input); err != nil {
		s.metrics.RecordError("ticket", "create", "VALIDATION_FAILED")
		return nil, err
	}
	if err := s.latency.wait(ctx, latencyTicketCreate); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		Tags:        input.Tags,
		CustomerID:  input.CustomerID,
		AssigneeID:  input.AssigneeID,
		Channel:     input.Channel,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	created, err := s.tickets.Create(ctx, ticket)
	if err != nil {
		return nil, s.fail("create", "", err)
	}
	s.logger.Info("ticket created",
		zap.String("ticket_id", created.ID),
		zap.String("subject", created.Subject),
		zap.String("priority", string(created.Priority)))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: created.ID,
		Payload: events.TicketCreatedPayload{
			Subject:    created.Subject,
			Priority:   created.Priority,
			CustomerID: created.CustomerID,
		},
	})
	return created, nil
}

// Update applies a single field operation to a ticket and refreshes
// its UpdatedAt.
func (s *TicketService) Update(ctx context.Context, id string, update domain.TicketUpdate) (*domain.Ticket, error) {
	s.metrics.RecordCall("ticket", "update", latencyTicketUpdate)
	if err := validateUpdate(update); err != nil {
		s.metrics.RecordError("ticket", "update", "VALIDATION_FAILED")
		return nil, err
	}
	if err := s.latency.wait(ctx, latencyTicketUpdate); err != nil {
		return nil, err
	}

	before, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("update", id, err)
	}
	updated, err := s.tickets.Update(ctx, id, update)
	if err != nil {
		return nil, s.fail("update", id, err)
	}

	s.logger.Info("ticket updated", zap.String("ticket_id", updated.ID))
	switch op := update.(type) {
	case domain.SetStatus:
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: updated.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: before.Status,
				NewStatus: op.Status,
			},
		})
	case domain.SetAssignee:
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: updated.ID,
			Payload:  events.TicketAssignedPayload{AssigneeID: updated.AssigneeID},
		})
	}
	return updated, nil
}

// Delete removes a ticket from the store.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	s.metrics.RecordCall("ticket", "delete", latencyTicketDelete)
	if err := s.latency.wait(ctx, latencyTicketDelete); err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return s.fail("delete", id, err)
	}
	s.logger.Info("ticket deleted", zap.String("ticket_id", id))
	s.publishEvent(ctx, events.Event{Type: events.EventTicketDeleted, TicketID: id})
	return nil
}

// BulkUpdate applies one field operation across a set of ticket
// identifiers. Identifiers not found in the store are silently skipped;
// callers infer partial success by comparing input count to returned
// count. Partially applied updates are never rolled back.
func (s *TicketService) BulkUpdate(ctx context.Context, ids []string, update domain.TicketUpdate) ([]domain.Ticket, error) {
	s.metrics.RecordCall("ticket", "bulkUpdate", latencyTicketBulk)
	if len(ids) == 0 {
		s.metrics.RecordError("ticket", "bulkUpdate", "VALIDATION_FAILED")
		return nil, util.NewValidationError("ticket ids must not be empty", nil)
	}
	if err := validateUpdate(update); err != nil {
		s.metrics.RecordError("ticket", "bulkUpdate", "VALIDATION_FAILED")
		return nil, err
	}
	if err := s.latency.wait(ctx, latencyTicketBulk); err != nil {
		return nil, err
	}

	updated := make([]domain.Ticket, 0, len(ids))
	for _, id := range ids {
		ticket, err := s.tickets.Update(ctx, id, update)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("bulk update skipped missing ticket", zap.String("ticket_id", id))
			continue
		}
		if err != nil {
			return nil, s.fail("bulkUpdate", id, err)
		}
		updated = append(updated, *ticket)
	}

	ticketIDs := make([]string, 0, len(updated))
	for i := range updated {
		ticketIDs = append(ticketIDs, updated[i].ID)
	}
	s.logger.Info("tickets bulk updated",
		zap.Int("requested", len(ids)),
		zap.Int("updated", len(updated)))
	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketsBulkUpdated,
		Payload: events.TicketsBulkUpdatedPayload{
			Requested: len(ids),
			Updated:   len(updated),
			TicketIDs: ticketIDs,
		},
	})
	return updated, nil
}

// BulkDelete removes a set of tickets, skipping identifiers that do
// not exist. It returns the number actually deleted.
func (s *TicketService) BulkDelete(ctx context.Context, ids []string) (int, error) {
	s.metrics.RecordCall("ticket", "bulkDelete", latencyTicketBulk)
	if len(ids) == 0 {
		s.metrics.RecordError("ticket", "bulkDelete", "VALIDATION_FAILED")
		return 0, util.NewValidationError("ticket ids must not be empty", nil)
	}
	if err := s.latency.wait(ctx, latencyTicketBulk); err != nil {
		return 0, err
	}

	deleted := 0
	for _, id := range ids {
		err := s.tickets.Delete(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return deleted, s.fail("bulkDelete", id, err)
		}
		deleted++
		s.publishEvent(ctx, events.Event{Type: events.EventTicketDeleted, TicketID: id})
	}
	s.logger.Info("tickets bulk deleted", zap.Int("requested", len(ids)), zap.Int("deleted", deleted))
	return deleted, nil
}

// Search returns tickets whose subject, description, or tags contain
// the query, case-insensitively.
func (s *TicketService) Search(ctx context.Context, query string) ([]domain.Ticket, error) {
	s.metrics.RecordCall("ticket", "search", latencyTicketSearch)
	if err := s.latency.wait(ctx, latencyTicketSearch); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var result []domain.Ticket
	for i := range tickets {
		if ticketContains(&tickets[i], needle) {
			result = append(result, tickets[i])
		}
	}
	return result, nil
}

// GetByStatus returns tickets in the given status, store order.
func (s *TicketService) GetByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	s.metrics.RecordCall("ticket", "getByStatus", latencyTicketQuery)
	if err := s.latency.wait(ctx, latencyTicketQuery); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	var result []domain.Ticket
	for i := range tickets {
		if tickets[i].Status == status {
			result = append(result, tickets[i])
		}
	}
	return result, nil
}

// GetByAssignee returns tickets assigned to the given agent, store order.
func (s *TicketService) GetByAssignee(ctx context.Context, assigneeID string) ([]domain.Ticket, error) {
	s.metrics.RecordCall("ticket", "getByAssignee", latencyTicketQuery)
	if err := s.latency.wait(ctx, latencyTicketQuery); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	var result []domain.Ticket
	for i := range tickets {
		if tickets[i].Assigned() && *tickets[i].AssigneeID == assigneeID {
			result = append(result, tickets[i])
		}
	}
	return result, nil
}

// Filter computes the visible ticket subset for the list view's filter
// state and free-text query. Customer and agent names resolve through
// the store; lookup misses count as non-matching.
func (s *TicketService) Filter(ctx context.Context, filters search.Filters, query string) ([]domain.Ticket, error) {
	s.metrics.RecordCall("ticket", "filter", latencyTicketList)
	if err := s.latency.wait(ctx, latencyTicketList); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := s.nameResolver(ctx)
	if err != nil {
		return nil, err
	}
	return search.Apply(tickets, filters, query, resolver), nil
}

// FindSimilarTickets ranks existing tickets against a draft's subject
// and description, returning the top matches for duplicate detection.
func (s *TicketService) FindSimilarTickets(ctx context.Context, query similarity.Query) ([]similarity.Match, error) {
	s.metrics.RecordCall("ticket", "findSimilar", latencyTicketSearch)
	if err := s.latency.wait(ctx, latencyTicketSearch); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return similarity.Rank(query, tickets, s.suggestion.Limit), nil
}

// validateUpdate rejects payloads outside the model's enums before any
// store access, so a bulk batch never half-applies a bad payload.
func validateUpdate(update domain.TicketUpdate) error {
	switch op := update.(type) {
	case domain.SetStatus:
		if !op.Status.Valid() {
			return util.NewValidationError("invalid ticket status", map[string]any{"status": string(op.Status)})
		}
	case domain.SetPriority:
		if !op.Priority.Valid() {
			return util.NewValidationError("invalid ticket priority", map[string]any{"priority": string(op.Priority)})
		}
	}
	return nil
}

func ticketContains(ticket *domain.Ticket, needle string) bool {
	if strings.Contains(strings.ToLower(ticket.Subject), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(ticket.Description), needle) {
		return true
	}
	for _, tag := range ticket.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

type storeResolver struct {
	customers map[string]string
	agents    map[string]string
}

func (r storeResolver) CustomerName(id string) (string, bool) {
	name, ok := r.customers[id]
	return name, ok
}

func (r storeResolver) AgentName(id string) (string, bool) {
	name, ok := r.agents[id]
	return name, ok
}

func (s *TicketService) nameResolver(ctx context.Context) (search.NameResolver, error) {
	resolver := storeResolver{
		customers: make(map[string]string),
		agents:    make(map[string]string),
	}
	if s.customers != nil {
		customers, err := s.customers.List(ctx)
		if err != nil {
			return nil, err
		}
		for i := range customers {
			resolver.customers[customers[i].ID] = customers[i].Name
		}
	}
	if s.agents != nil {
		agents, err := s.agents.List(ctx)
		if err != nil {
			return nil, err
		}
		for i := range agents {
			resolver.agents[agents[i].ID] = agents[i].Name
		}
	}
	return resolver, nil
}

func (s *TicketService) fail(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.RecordError("ticket", op, "NOT_FOUND")
		details := map[string]any{}
		if id != "" {
			details["id"] = id
		}
		return util.NewNotFound("Ticket", details)
	}
	s.metrics.RecordError("ticket", op, util.ToDomainError(err).Code)
	return util.ToDomainError(err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
