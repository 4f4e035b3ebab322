package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/clock"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/debounce"
	"github.com/spec-kit/support-desk/internal/similarity"
)

// minQueryLength is the shortest combined draft text worth ranking.
const minQueryLength = 3

// SimilarTicketFinder is the slice of the ticket service the
// suggestion pipeline needs.
type SimilarTicketFinder interface {
	FindSimilarTickets(ctx context.Context, query similarity.Query) ([]similarity.Match, error)
}

// SuggestionListener receives ranked suggestions for the most recent
// input. An empty slice means "show nothing".
type SuggestionListener func(matches []similarity.Match)

// SuggestionController feeds draft-ticket keystrokes through a
// debouncer into the similarity ranker. Only the final settled input
// after the quiet period triggers a ranking, and only the result of
// the most recently issued request reaches the listener; stale
// in-flight completions are discarded by generation check.
type SuggestionController struct {
	finder    SimilarTicketFinder
	debouncer *debounce.Debouncer
	logger    *zap.Logger

	mu       sync.Mutex
	listener SuggestionListener
	latest   similarity.Query
}

// NewSuggestionController constructs the controller. The listener is
// invoked from the debounce timer goroutine.
func NewSuggestionController(finder SimilarTicketFinder, clk clock.Clock, cfg config.SuggestionConfig, logger *zap.Logger, listener SuggestionListener) *SuggestionController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.System()
	}
	return &SuggestionController{
		finder:    finder,
		debouncer: debounce.New(clk, cfg.Debounce()),
		logger:    logger,
		listener:  listener,
	}
}

// SetInput records a keystroke's worth of draft text. Input too short
// to rank clears any pending computation and delivers an empty result
// immediately; otherwise the ranking is (re)scheduled for after the
// quiet period.
func (c *SuggestionController) SetInput(ctx context.Context, subject, description string) {
	c.mu.Lock()
	c.latest = similarity.Query{Subject: subject, Description: description}
	c.mu.Unlock()

	combined := strings.TrimSpace(subject + " " + description)
	if len(combined) < minQueryLength {
		c.debouncer.Cancel()
		c.deliver(nil)
		return
	}

	c.debouncer.Schedule(func(generation uint64) {
		c.mu.Lock()
		query := c.latest
		c.mu.Unlock()

		matches, err := c.finder.FindSimilarTickets(ctx, query)
		if err != nil {
			c.logger.Warn("similar ticket search failed", zap.Error(err))
			matches = nil
		}
		if c.debouncer.Stale(generation) {
			c.logger.Debug("discarding stale suggestion result")
			return
		}
		c.deliver(matches)
	})
}

// Reset cancels pending work and clears delivered suggestions, e.g.
// when the creation form closes.
func (c *SuggestionController) Reset() {
	c.debouncer.Cancel()
	c.deliver(nil)
}

func (c *SuggestionController) deliver(matches []similarity.Match) {
	c.mu.Lock()
	listener := c.listener
	c.mu.Unlock()
	if listener != nil {
		listener(matches)
	}
}
