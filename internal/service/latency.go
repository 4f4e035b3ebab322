package service

import (
	"context"
	"time"

	"github.com/spec-kit/support-desk/internal/clock"
	"github.com/spec-kit/support-desk/internal/config"
)

// Per-operation simulated latencies. The mock layer mimics a REST
// client whose transport is a no-op; these delays preserve the
// pending/loading behavior the callers are written against.
const (
	latencyTicketList   = 300 * time.Millisecond
	latencyTicketGet    = 200 * time.Millisecond
	latencyTicketCreate = 400 * time.Millisecond
	latencyTicketUpdate = 300 * time.Millisecond
	latencyTicketDelete = 250 * time.Millisecond
	latencyTicketBulk   = 400 * time.Millisecond
	latencyTicketSearch = 250 * time.Millisecond
	latencyTicketQuery  = 200 * time.Millisecond

	latencyCustomerList   = 250 * time.Millisecond
	latencyCustomerGet    = 200 * time.Millisecond
	latencyCustomerCreate = 300 * time.Millisecond
	latencyCustomerUpdate = 250 * time.Millisecond
	latencyCustomerDelete = 200 * time.Millisecond

	latencyAgentList   = 200 * time.Millisecond
	latencyAgentGet    = 150 * time.Millisecond
	latencyAgentCreate = 300 * time.Millisecond
	latencyAgentUpdate = 250 * time.Millisecond
	latencyAgentDelete = 200 * time.Millisecond

	latencyNoteList   = 200 * time.Millisecond
	latencyNoteCreate = 300 * time.Millisecond
	latencyNoteUpdate = 250 * time.Millisecond
	latencyNoteDelete = 200 * time.Millisecond
)

// latencySimulator waits out the configured delay for an operation.
// The wait always completes unless the caller's context is cancelled;
// there are no timeouts and no transient failures to model.
type latencySimulator struct {
	cfg   config.LatencyConfig
	clock clock.Clock
}

func (l latencySimulator) wait(ctx context.Context, d time.Duration) error {
	if !l.cfg.Enabled {
		return ctx.Err()
	}
	if l.cfg.ScalePercent > 0 && l.cfg.ScalePercent != 100 {
		d = d * time.Duration(l.cfg.ScalePercent) / 100
	}
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-l.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
