package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/clock"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/pkg/util"
)

// CustomerService exposes customer CRUD over the in-memory store.
type CustomerService struct {
	customers repository.CustomerRepository
	logger    *zap.Logger
	metrics   *observability.Metrics
	latency   latencySimulator
}

// CustomerCreateInput describes the customer creation payload.
type CustomerCreateInput struct {
	Name      string `validate:"required"`
	Email     string `validate:"required,email"`
	Company   string
	AvatarURL string
}

// NewCustomerService constructs the service.
func NewCustomerService(repo repository.CustomerRepository, logger *zap.Logger, metrics *observability.Metrics, clk clock.Clock, latency config.LatencyConfig) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.System()
	}
	return &CustomerService{
		customers: repo,
		logger:    logger,
		metrics:   metrics,
		latency:   latencySimulator{cfg: latency, clock: clk},
	}
}

// GetAll returns a copy of every customer in store order.
func (s *CustomerService) GetAll(ctx context.Context) ([]domain.Customer, error) {
	s.metrics.RecordCall("customer", "getAll", latencyCustomerList)
	if err := s.latency.wait(ctx, latencyCustomerList); err != nil {
		return nil, err
	}
	return s.customers.List(ctx)
}

// GetByID fetches a single customer.
func (s *CustomerService) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	s.metrics.RecordCall("customer", "getById", latencyCustomerGet)
	if err := s.latency.wait(ctx, latencyCustomerGet); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("getById", id, err)
	}
	return customer, nil
}

// Create validates and stores a new customer. When no avatar is
// supplied one is derived deterministically from the name.
func (s *CustomerService) Create(ctx context.Context, input CustomerCreateInput) (*domain.Customer, error) {
	s.metrics.RecordCall("customer", "create", latencyCustomerCreate)
	if err := checkInput(input); err != nil {
		s.metrics.RecordError("customer", "create", "VALIDATION_FAILED")
		return nil, err
	}
	if err := s.latency.wait(ctx, latencyCustomerCreate); err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Company:   strings.TrimSpace(input.Company),
		AvatarURL: input.AvatarURL,
	}
	if customer.AvatarURL == "" {
		customer.AvatarURL = avatarURL(customer.Name, customerAvatarBackground)
	}

	created, err := s.customers.Create(ctx, customer)
	if err != nil {
		return nil, s.fail("create", "", err)
	}
	s.logger.Info("customer created", zap.String("customer_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Update applies a partial field update to a customer.
func (s *CustomerService) Update(ctx context.Context, id string, patch repository.CustomerPatch) (*domain.Customer, error) {
	s.metrics.RecordCall("customer", "update", latencyCustomerUpdate)
	if err := s.latency.wait(ctx, latencyCustomerUpdate); err != nil {
		return nil, err
	}
	updated, err := s.customers.Update(ctx, id, patch)
	if err != nil {
		return nil, s.fail("update", id, err)
	}
	s.logger.Info("customer updated", zap.String("customer_id", updated.ID))
	return updated, nil
}

// Delete removes a customer. Tickets referencing the customer are left
// alone; readers resolve the dangling reference to "Unknown Customer".
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	s.metrics.RecordCall("customer", "delete", latencyCustomerDelete)
	if err := s.latency.wait(ctx, latencyCustomerDelete); err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return s.fail("delete", id, err)
	}
	s.logger.Info("customer deleted", zap.String("customer_id", id))
	return nil
}

func (s *CustomerService) fail(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.RecordError("customer", op, "NOT_FOUND")
		details := map[string]any{}
		if id != "" {
			details["id"] = id
		}
		return util.NewNotFound("Customer", details)
	}
	s.metrics.RecordError("customer", op, util.ToDomainError(err).Code)
	return util.ToDomainError(err)
}

// Avatar background colors per entity kind, matching the palette the
// views render with.
const (
	customerAvatarBackground = "2563EB"
	agentAvatarBackground    = "7C3AED"
)

// avatarURL derives a deterministic avatar image URL from a name.
func avatarURL(name, background string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=" + background + "&color=fff"
}
