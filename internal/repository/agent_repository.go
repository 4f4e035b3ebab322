package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
)

// AgentPatch carries a partial agent update. Nil fields are left
// untouched.
type AgentPatch struct {
	Name      *string
	Email     *string
	Role      *string
	AvatarURL *string
}

// AgentRepository encapsulates agent storage.
type AgentRepository interface {
	List(ctx context.Context) ([]domain.Agent, error)
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	Create(ctx context.Context, agent *domain.Agent) (*domain.Agent, error)
	Update(ctx context.Context, id string, patch AgentPatch) (*domain.Agent, error)
	Delete(ctx context.Context, id string) error
}

type agentRepository struct {
	mu     sync.Mutex
	agents []domain.Agent
}

// NewAgentRepository instantiates the in-memory agent store.
func NewAgentRepository(seed []domain.Agent) AgentRepository {
	repo := &agentRepository{}
	for _, agent := range seed {
		repo.agents = append(repo.agents, agent.Clone())
	}
	return repo
}

func (r *agentRepository) List(ctx context.Context) ([]domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Agent, 0, len(r.agents))
	for i := range r.agents {
		result = append(result, r.agents[i].Clone())
	}
	return result, nil
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.agents {
		if r.agents[i].ID == id {
			copied := r.agents[i].Clone()
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := agent.Clone()
	stored.ID = uuid.NewString()
	r.agents = append([]domain.Agent{stored}, r.agents...)
	copied := stored.Clone()
	return &copied, nil
}

func (r *agentRepository) Update(ctx context.Context, id string, patch AgentPatch) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.agents {
		if r.agents[i].ID != id {
			continue
		}
		if patch.Name != nil {
			r.agents[i].Name = *patch.Name
		}
		if patch.Email != nil {
			r.agents[i].Email = *patch.Email
		}
		if patch.Role != nil {
			r.agents[i].Role = *patch.Role
		}
		if patch.AvatarURL != nil {
			r.agents[i].AvatarURL = *patch.AvatarURL
		}
		copied := r.agents[i].Clone()
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (r *agentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.agents {
		if r.agents[i].ID == id {
			r.agents = append(r.agents[:i], r.agents[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
