// Package worker hosts event subscribers. The notification worker is
// the in-process stand-in for the UI's toast notifications: every
// user-visible outcome of a mutation surfaces as a structured log line.
package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/events"
)

// NotificationWorker turns domain events into user-facing notices.
type NotificationWorker struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationWorker creates the worker.
func NewNotificationWorker(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to the events the surface notifies on.
func (w *NotificationWorker) RegisterHandlers() {
	if w.dispatcher == nil {
		return
	}
	w.dispatcher.Subscribe(events.EventTicketCreated, w.handle("Ticket created"))
	w.dispatcher.Subscribe(events.EventTicketStatusChanged, w.handle("Ticket status updated"))
	w.dispatcher.Subscribe(events.EventTicketAssigned, w.handle("Ticket assigned"))
	w.dispatcher.Subscribe(events.EventTicketDeleted, w.handle("Ticket deleted"))
	w.dispatcher.Subscribe(events.EventTicketsBulkUpdated, w.handle("Tickets updated"))
	w.dispatcher.Subscribe(events.EventNoteAdded, w.handle("Internal note added"))
}

func (w *NotificationWorker) handle(notice string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		w.logger.Info(notice,
			zap.String("event_id", event.ID),
			zap.String("ticket_id", event.TicketID),
			zap.Any("payload", event.Payload))
		return nil
	}
}
