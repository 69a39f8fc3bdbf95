package services

import (
	"errors"
	"strings"
	"time"

	"salescrm/internal/models"
	"salescrm/internal/repositories"
)

type CustomerService struct {
	Repo *repositories.CustomerRepository
}

func NewCustomerService(repo *repositories.CustomerRepository) *CustomerService {
	return &CustomerService{Repo: repo}
}

func (s *CustomerService) Create(customer *models.Customer) (int64, error) {
	if strings.TrimSpace(customer.Name) == "" {
		return 0, errors.New("name is required")
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}
	return s.Repo.Create(customer)
}

func (s *CustomerService) Update(customer *models.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return errors.New("name is required")
	}
	return s.Repo.Update(customer)
}

func (s *CustomerService) GetByID(id int) (*models.Customer, error) {
	return s.Repo.GetByID(id)
}

// GetOrCreateByTaxNumber reuses an existing customer when the tax number
// is already known, otherwise creates one from fallback.
func (s *CustomerService) GetOrCreateByTaxNumber(taxNumber string, fallback *models.Customer) (*models.Customer, error) {
	if strings.TrimSpace(taxNumber) != "" {
		existing, err := s.Repo.GetByTaxNumber(taxNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}
	if fallback == nil {
		return nil, errors.New("customer data is required")
	}
	if strings.TrimSpace(fallback.Name) == "" {
		return nil, errors.New("customer name is required")
	}
	if fallback.CreatedAt.IsZero() {
		fallback.CreatedAt = time.Now()
	}
	id, err := s.Repo.Create(fallback)
	if err != nil {
		return nil, err
	}
	fallback.ID = int(id)
	return fallback, nil
}

func (s *CustomerService) List(limit, offset int) ([]*models.Customer, error) {
	return s.Repo.List(limit, offset)
}

func (s *CustomerService) Delete(id int) error {
	return s.Repo.Delete(id)
}
