package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/clock"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/pkg/util"
)

// NoteService exposes internal notes: created by agents on a ticket,
// listed newest first, editable in content only.
type NoteService struct {
	notes      repository.NoteRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	clock      clock.Clock
	latency    latencySimulator
}

// NoteCreateInput describes the note creation payload.
type NoteCreateInput struct {
	TicketID string `validate:"required"`
	AuthorID string `validate:"required"`
	Content  string `validate:"required"`
}

// NewNoteService constructs the service.
func NewNoteService(repo repository.NoteRepository, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, clk clock.Clock, latency config.LatencyConfig) *NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.System()
	}
	return &NoteService{
		notes:      repo,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		clock:      clk,
		latency:    latencySimulator{cfg: latency, clock: clk},
	}
}

// GetByTicketID returns the ticket's notes, newest first.
func (s *NoteService) GetByTicketID(ctx context.Context, ticketID string) ([]domain.InternalNote, error) {
	s.metrics.RecordCall("note", "getByTicketId", latencyNoteList)
	if err := s.latency.wait(ctx, latencyNoteList); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, util.ToDomainError(err)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

// Create validates and appends a note to a ticket.
func (s *NoteService) Create(ctx context.Context, input NoteCreateInput) (*domain.InternalNote, error) {
	s.metrics.RecordCall("note", "create", latencyNoteCreate)
	if err := checkInput(input); err != nil {
		s.metrics.RecordError("note", "create", "VALIDATION_FAILED")
		return nil, err
	}
	if err := s.latency.wait(ctx, latencyNoteCreate); err != nil {
		return nil, err
	}

	note := &domain.InternalNote{
		TicketID: input.TicketID,
		AuthorID: input.AuthorID,
		Content:  strings.TrimSpace(input.Content),
	}
	created, err := s.notes.Create(ctx, note)
	if err != nil {
		return nil, util.ToDomainError(err)
	}
	s.logger.Info("note added",
		zap.String("note_id", created.ID),
		zap.String("ticket_id", created.TicketID))
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventNoteAdded,
			TicketID:  created.TicketID,
			Timestamp: s.clock.Now(),
			Payload: events.NoteAddedPayload{
				NoteID:   created.ID,
				AuthorID: created.AuthorID,
				Preview:  preview(created.Content, 120),
			},
		})
	}
	return created, nil
}

// Update replaces a note's content. Ticket and author are fixed at
// creation and cannot be changed.
func (s *NoteService) Update(ctx context.Context, id, content string) (*domain.InternalNote, error) {
	s.metrics.RecordCall("note", "update", latencyNoteUpdate)
	content = strings.TrimSpace(content)
	if content == "" {
		s.metrics.RecordError("note", "update", "VALIDATION_FAILED")
		return nil, util.NewValidationError("note content must not be empty", nil)
	}
	if err := s.latency.wait(ctx, latencyNoteUpdate); err != nil {
		return nil, err
	}

	updated, err := s.notes.Update(ctx, id, repository.NotePatch{Content: &content})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordError("note", "update", "NOT_FOUND")
			return nil, util.NewNotFound("Note", map[string]any{"id": id})
		}
		return nil, util.ToDomainError(err)
	}
	s.logger.Info("note updated", zap.String("note_id", updated.ID))
	return updated, nil
}

// Delete removes a note.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	s.metrics.RecordCall("note", "delete", latencyNoteDelete)
	if err := s.latency.wait(ctx, latencyNoteDelete); err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordError("note", "delete", "NOT_FOUND")
			return util.NewNotFound("Note", map[string]any{"id": id})
		}
		return util.ToDomainError(err)
	}
	s.logger.Info("note deleted", zap.String("note_id", id))
	return nil
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
