package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/clock"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/pkg/util"
)

// AgentService exposes agent CRUD over the in-memory store. The
// dashboard and reports pages are read-only consumers of GetAll; the
// admin surface manages the roster.
type AgentService struct {
	agents  repository.AgentRepository
	logger  *zap.Logger
	metrics *observability.Metrics
	latency latencySimulator
}

// AgentCreateInput describes the agent creation payload.
type AgentCreateInput struct {
	Name      string `validate:"required"`
	Email     string `validate:"required,email"`
	Role      string
	AvatarURL string
}

// NewAgentService constructs the service.
func NewAgentService(repo repository.AgentRepository, logger *zap.Logger, metrics *observability.Metrics, clk clock.Clock, latency config.LatencyConfig) *AgentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.System()
	}
	return &AgentService{
		agents:  repo,
		logger:  logger,
		metrics: metrics,
		latency: latencySimulator{cfg: latency, clock: clk},
	}
}

// GetAll returns a copy of every agent in store order.
func (s *AgentService) GetAll(ctx context.Context) ([]domain.Agent, error) {
	s.metrics.RecordCall("agent", "getAll", latencyAgentList)
	if err := s.latency.wait(ctx, latencyAgentList); err != nil {
		return nil, err
	}
	return s.agents.List(ctx)
}

// GetByID fetches a single agent.
func (s *AgentService) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	s.metrics.RecordCall("agent", "getById", latencyAgentGet)
	if err := s.latency.wait(ctx, latencyAgentGet); err != nil {
		return nil, err
	}
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("getById", id, err)
	}
	return agent, nil
}

// Create validates and stores a new agent. When no avatar is supplied
// one is derived deterministically from the name.
func (s *AgentService) Create(ctx context.Context, input AgentCreateInput) (*domain.Agent, error) {
	s.metrics.RecordCall("agent", "create", latencyAgentCreate)
	if err := checkInput(input); err != nil {
		s.metrics.RecordError("agent", "create", "VALIDATION_FAILED")
		return nil, err
	}
	if err := s.latency.wait(ctx, latencyAgentCreate); err != nil {
		return nil, err
	}

	agent := &domain.Agent{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Role:      strings.TrimSpace(input.Role),
		AvatarURL: input.AvatarURL,
	}
	if agent.AvatarURL == "" {
		agent.AvatarURL = avatarURL(agent.Name, agentAvatarBackground)
	}

	created, err := s.agents.Create(ctx, agent)
	if err != nil {
		return nil, s.fail("create", "", err)
	}
	s.logger.Info("agent created", zap.String("agent_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Update applies a partial field update to an agent.
func (s *AgentService) Update(ctx context.Context, id string, patch repository.AgentPatch) (*domain.Agent, error) {
	s.metrics.RecordCall("agent", "update", latencyAgentUpdate)
	if err := s.latency.wait(ctx, latencyAgentUpdate); err != nil {
		return nil, err
	}
	updated, err := s.agents.Update(ctx, id, patch)
	if err != nil {
		return nil, s.fail("update", id, err)
	}
	s.logger.Info("agent updated", zap.String("agent_id", updated.ID))
	return updated, nil
}

// Delete removes an agent. Tickets assigned to the agent keep their
// assignee id; readers resolve the dangling reference to
// "Unknown Agent".
func (s *AgentService) Delete(ctx context.Context, id string) error {
	s.metrics.RecordCall("agent", "delete", latencyAgentDelete)
	if err := s.latency.wait(ctx, latencyAgentDelete); err != nil {
		return err
	}
	if err := s.agents.Delete(ctx, id); err != nil {
		return s.fail("delete", id, err)
	}
	s.logger.Info("agent deleted", zap.String("agent_id", id))
	return nil
}

func (s *AgentService) fail(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.RecordError("agent", op, "NOT_FOUND")
		details := map[string]any{}
		if id != "" {
			details["id"] = id
		}
		return util.NewNotFound("Agent", details)
	}
	s.metrics.RecordError("agent", op, util.ToDomainError(err).Code)
	return util.ToDomainError(err)
}
