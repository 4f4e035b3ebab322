// Package similarity scores existing tickets against a draft ticket's
// text so the creation form can surface likely duplicates before the
// ticket is filed.
package similarity

import (
	"sort"
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Score weights. Subject hits carry the most signal, tag hits are
// categorical, description hits are the weakest text match. A resolved
// ticket gets a flat bonus: resolved tickets are more likely to contain
// a usable solution.
const (
	weightExactPhrase = 10
	weightSubject     = 3
	weightTag         = 2
	weightDescription = 1
	bonusResolved     = 1
)

// DefaultLimit caps how many suggestions a ranking returns.
const DefaultLimit = 5

// minTokenLength filters out tokens too short to be meaningful.
const minTokenLength = 3

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "are": {},
	"with": {}, "this": {}, "that": {}, "from": {},
}

// Query is the draft ticket text being ranked against the store.
type Query struct {
	Subject     string
	Description string
}

// Match pairs a ticket with its relevance score.
type Match struct {
	Ticket domain.Ticket
	Score  int
}

// Tokenize splits the combined subject+description on whitespace,
// lowercases, and drops short tokens and stop words. The returned
// slice preserves first-occurrence order and contains no duplicates.
func Tokenize(query Query) []string {
	combined := strings.ToLower(strings.TrimSpace(query.Subject + " " + query.Description))
	seen := make(map[string]struct{})
	var tokens []string
	for _, token := range strings.Fields(combined) {
		if len(token) < minTokenLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

// Rank scores every ticket against the query and returns at most limit
// matches, best first. Tickets scoring zero or below are dropped. Ties
// keep store order (the sort is stable), so results are deterministic
// for a given store state. Rank has no side effects; tickets must be a
// snapshot in store order.
func Rank(query Query, tickets []domain.Ticket, limit int) []Match {
	if limit <= 0 {
		limit = DefaultLimit
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	subject := strings.ToLower(strings.TrimSpace(query.Subject))

	var matches []Match
	for i := range tickets {
		score := scoreTicket(&tickets[i], subject, tokens)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Ticket: tickets[i].Clone(), Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func scoreTicket(ticket *domain.Ticket, subject string, tokens []string) int {
	ticketSubject := strings.ToLower(ticket.Subject)
	ticketDescription := strings.ToLower(ticket.Description)

	score := 0
	if subject != "" && strings.Contains(ticketSubject+" "+ticketDescription, subject) {
		score += weightExactPhrase
	}

	for _, token := range tokens {
		if strings.Contains(ticketSubject, token) {
			score += weightSubject
		}
		if strings.Contains(ticketDescription, token) {
			score += weightDescription
		}
		for _, tag := range ticket.Tags {
			if strings.Contains(strings.ToLower(tag), token) {
				score += weightTag
				break
			}
		}
	}

	// The bonus is flat and unconditional, so a resolved ticket always
	// clears the positive-score cutoff even with no token hits.
	if ticket.Status == domain.TicketStatusResolved {
		score += bonusResolved
	}
	return score
}
