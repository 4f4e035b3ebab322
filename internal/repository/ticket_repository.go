package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/clock"
	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketRepository encapsulates ticket storage.
type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	Update(ctx context.Context, id string, update domain.TicketUpdate) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	mu      sync.Mutex
	clock   clock.Clock
	tickets []domain.Ticket
}

// NewTicketRepository instantiates the in-memory ticket store, seeded
// with the given records in order.
func NewTicketRepository(clk clock.Clock, seed []domain.Ticket) TicketRepository {
	repo := &ticketRepository{clock: clk}
	for _, ticket := range seed {
		repo.tickets = append(repo.tickets, ticket.Clone())
	}
	return repo
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Ticket, 0, len(r.tickets))
	for i := range r.tickets {
		result = append(result, r.tickets[i].Clone())
	}
	return result, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			copied := r.tickets[i].Clone()
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// Create assigns a fresh identifier and timestamps, then prepends the
// ticket so it appears first in store order.
func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := ticket.Clone()
	stored.ID = uuid.NewString()
	now := r.clock.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.tickets = append([]domain.Ticket{stored}, r.tickets...)
	copied := stored.Clone()
	return &copied, nil
}

// Update looks up the ticket, applies the field operation, and
// refreshes UpdatedAt. Lookup plus merge happens under the store lock,
// so overlapping updates serialize with last-write-wins semantics.
func (r *ticketRepository) Update(ctx context.Context, id string, update domain.TicketUpdate) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tickets {
		if r.tickets[i].ID != id {
			continue
		}
		if err := update.Apply(&r.tickets[i]); err != nil {
			return nil, err
		}
		r.tickets[i].UpdatedAt = r.clock.Now()
		copied := r.tickets[i].Clone()
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tickets {
		if r.tickets[i].ID == id {
			r.tickets = append(r.tickets[:i], r.tickets[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
