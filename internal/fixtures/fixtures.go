// Package fixtures carries the static seed data the entity store is
// populated with at startup. The JSON files are the only persisted
// artifact in the system and are read-only.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/spec-kit/support-desk/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// Data bundles the seed collections in fixture order.
type Data struct {
	Tickets   []domain.Ticket
	Customers []domain.Customer
	Agents    []domain.Agent
	Notes     []domain.InternalNote
}

// Load parses the embedded seed files.
func Load() (*Data, error) {
	var data Data
	if err := loadFile("data/tickets.json", &data.Tickets); err != nil {
		return nil, err
	}
	if err := loadFile("data/customers.json", &data.Customers); err != nil {
		return nil, err
	}
	if err := loadFile("data/agents.json", &data.Agents); err != nil {
		return nil, err
	}
	if err := loadFile("data/internal_notes.json", &data.Notes); err != nil {
		return nil, err
	}
	return &data, nil
}

func loadFile(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse fixture %s: %w", name, err)
	}
	return nil
}
