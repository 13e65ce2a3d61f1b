package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rotrack/internal/domain/billing"
	"rotrack/internal/domain/customer"
	"rotrack/internal/domain/settings"
	"rotrack/internal/pkg/apperrors"
)

// Repository is the local guest-mode implementation of the customer and settings
// repositories. All writes copy; callers never share memory with the store,
// which is what makes payment-list updates behave like the atomic document
// replacements the persistence contract requires.
type Repository struct {
	mu        sync.RWMutex
	customers map[string]*customer.Customer
	settings  settings.AppSettings
}

var (
	_ customer.Repository = (*Repository)(nil)
	_ settings.Repository = (*Repository)(nil)
)

func NewRepository() *Repository {
	return &Repository{customers: make(map[string]*customer.Customer)}
}

func clone(c *customer.Customer) *customer.Customer {
	cp := *c
	cp.Payments = append([]billing.Payment(nil), c.Payments...)
	return &cp
}

func (s *Repository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[cust.ID]; ok {
		return fmt.Errorf("%w: customer %s", apperrors.ErrAlreadyExists, cust.ID)
	}
	for _, existing := range s.customers {
		if existing.SerialNumber == cust.SerialNumber {
			return fmt.Errorf("%w: serial number %d", apperrors.ErrDuplicateSerial, cust.SerialNumber)
		}
	}
	s.customers[cust.ID] = clone(cust)
	return nil
}

func (s *Repository) Update(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.customers[cust.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	updated := clone(cust)
	// Update does not touch the payment list; UpdatePayments owns that.
	updated.Payments = append([]billing.Payment(nil), existing.Payments...)
	s.customers[cust.ID] = updated
	return nil
}

func (s *Repository) UpdatePayments(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[cust.ID]; !ok {
		return apperrors.ErrNotFound
	}
	s.customers[cust.ID] = clone(cust)
	return nil
}

func (s *Repository) FindByID(ctx context.Context, customerID string) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cust, ok := s.customers[customerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return clone(cust), nil
}

func (s *Repository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]*customer.Customer, 0, len(s.customers))
	for _, cust := range s.customers {
		customers = append(customers, clone(cust))
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].SerialNumber < customers[j].SerialNumber
	})
	return customers, nil
}

func (s *Repository) SerialNumberExists(ctx context.Context, serialNumber int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cust := range s.customers {
		if cust.SerialNumber == serialNumber {
			return true, nil
		}
	}
	return false, nil
}

func (s *Repository) Delete(ctx context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customerID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.customers, customerID)
	return nil
}

func (s *Repository) Load(ctx context.Context) (settings.AppSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Repository) Store(ctx context.Context, appSettings settings.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = appSettings
	return nil
}
