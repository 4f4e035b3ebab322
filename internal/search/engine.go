// Package search computes the visible ticket subset from the list
// view's filter state and free-text query.
package search

import (
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
)

// All is the sentinel filter value that disables a predicate.
const All = "all"

// Unassigned is the assignee filter value matching tickets with no
// assignee.
const Unassigned = "unassigned"

// Filters is the list view's filter state. Each field is either a
// concrete value or All.
type Filters struct {
	Status   string
	Priority string
	Assignee string
}

// NewFilters returns the default everything-visible state.
func NewFilters() Filters {
	return Filters{Status: All, Priority: All, Assignee: All}
}

// NameResolver maps entity identifiers to display names for free-text
// matching. A miss returns ok=false; the engine treats misses as
// non-matching rather than erroring, so dangling references never break
// filtering.
type NameResolver interface {
	CustomerName(id string) (string, bool)
	AgentName(id string) (string, bool)
}

// Apply returns the tickets that pass the filter predicates and, when
// query is non-empty after trimming, also match the free text. The
// predicates AND together; output preserves input order.
func Apply(tickets []domain.Ticket, filters Filters, query string, names NameResolver) []domain.Ticket {
	query = strings.ToLower(strings.TrimSpace(query))

	var result []domain.Ticket
	for i := range tickets {
		ticket := &tickets[i]
		if !matchesFilters(ticket, filters) {
			continue
		}
		if query != "" && !matchesQuery(ticket, query, names) {
			continue
		}
		result = append(result, ticket.Clone())
	}
	return result
}

func matchesFilters(ticket *domain.Ticket, filters Filters) bool {
	if filters.Status != All && filters.Status != "" && string(ticket.Status) != filters.Status {
		return false
	}
	if filters.Priority != All && filters.Priority != "" && string(ticket.Priority) != filters.Priority {
		return false
	}
	switch filters.Assignee {
	case All, "":
	case Unassigned:
		if ticket.Assigned() {
			return false
		}
	default:
		if !ticket.Assigned() || *ticket.AssigneeID != filters.Assignee {
			return false
		}
	}
	return true
}

// matchesQuery reports whether the ticket matches the lowercased query
// on subject, description, resolved customer name, resolved assignee
// name, or any tag.
func matchesQuery(ticket *domain.Ticket, query string, names NameResolver) bool {
	if strings.Contains(strings.ToLower(ticket.Subject), query) {
		return true
	}
	if strings.Contains(strings.ToLower(ticket.Description), query) {
		return true
	}
	if names != nil {
		if name, ok := names.CustomerName(ticket.CustomerID); ok {
			if strings.Contains(strings.ToLower(name), query) {
				return true
			}
		}
		if ticket.Assigned() {
			if name, ok := names.AgentName(*ticket.AssigneeID); ok {
				if strings.Contains(strings.ToLower(name), query) {
					return true
				}
			}
		}
	}
	for _, tag := range ticket.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
