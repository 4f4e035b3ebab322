package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/clock"
	"github.com/spec-kit/support-desk/internal/domain"
)

// NotePatch carries a partial note update. Only the content is
// editable; identity and authorship are fixed at creation.
type NotePatch struct {
	Content *string
}

// NoteRepository encapsulates internal-note storage.
type NoteRepository interface {
	List(ctx context.Context) ([]domain.InternalNote, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.InternalNote, error)
	Create(ctx context.Context, note *domain.InternalNote) (*domain.InternalNote, error)
	Update(ctx context.Context, id string, patch NotePatch) (*domain.InternalNote, error)
	Delete(ctx context.Context, id string) error
}

type noteRepository struct {
	mu    sync.Mutex
	clock clock.Clock
	notes []domain.InternalNote
}

// NewNoteRepository instantiates the in-memory note store.
func NewNoteRepository(clk clock.Clock, seed []domain.InternalNote) NoteRepository {
	repo := &noteRepository{clock: clk}
	for _, note := range seed {
		repo.notes = append(repo.notes, note.Clone())
	}
	return repo
}

func (r *noteRepository) List(ctx context.Context) ([]domain.InternalNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.InternalNote, 0, len(r.notes))
	for i := range r.notes {
		result = append(result, r.notes[i].Clone())
	}
	return result, nil
}

// ListByTicket returns the ticket's notes in store order, which is
// newest first because Create prepends.
func (r *noteRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.InternalNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.InternalNote
	for i := range r.notes {
		if r.notes[i].TicketID == ticketID {
			result = append(result, r.notes[i].Clone())
		}
	}
	return result, nil
}

func (r *noteRepository) Create(ctx context.Context, note *domain.InternalNote) (*domain.InternalNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := note.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.clock.Now()
	r.notes = append([]domain.InternalNote{stored}, r.notes...)
	copied := stored.Clone()
	return &copied, nil
}

func (r *noteRepository) Update(ctx context.Context, id string, patch NotePatch) (*domain.InternalNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notes {
		if r.notes[i].ID != id {
			continue
		}
		if patch.Content != nil {
			r.notes[i].Content = *patch.Content
		}
		copied := r.notes[i].Clone()
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notes {
		if r.notes[i].ID == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
