package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CustomerPatch carries partial customer field updates. Nil pointers
// leave the corresponding field untouched.
type CustomerPatch struct {
	Name      *string
	Email     *string
	Company   *string
	AvatarURL *string
}

// CustomerRepository encapsulates customer storage.
type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, id string, patch CustomerPatch) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

type customerRepository struct {
	mu        sync.Mutex
	customers []domain.Customer
}

// NewCustomerRepository instantiates the in-memory customer store.
func NewCustomerRepository(seed []domain.Customer) CustomerRepository {
	repo := &customerRepository{}
	for _, customer := range seed {
		repo.customers = append(repo.customers, customer.Clone())
	}
	return repo
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Customer, 0, len(r.customers))
	for i := range r.customers {
		result = append(result, r.customers[i].Clone())
	}
	return result, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.customers {
		if r.customers[i].ID == id {
			copied := r.customers[i].Clone()
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := customer.Clone()
	stored.ID = uuid.NewString()
	r.customers = append([]domain.Customer{stored}, r.customers...)
	copied := stored.Clone()
	return &copied, nil
}

func (r *customerRepository) Update(ctx context.Context, id string, patch CustomerPatch) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.customers {
		if r.customers[i].ID != id {
			continue
		}
		if patch.Name != nil {
			r.customers[i].Name = *patch.Name
		}
		if patch.Email != nil {
			r.customers[i].Email = *patch.Email
		}
		if patch.Company != nil {
			r.customers[i].Company = *patch.Company
		}
		if patch.AvatarURL != nil {
			r.customers[i].AvatarURL = *patch.AvatarURL
		}
		copied := r.customers[i].Clone()
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.customers {
		if r.customers[i].ID == id {
			r.customers = append(r.customers[:i], r.customers[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
