package services

import (
	"errors"
	"strings"
	"time"

	"salescrm/internal/models"
	"salescrm/internal/repositories"
)

type ProductService struct {
	Repo *repositories.ProductRepository
}

func NewProductService(repo *repositories.ProductRepository) *ProductService {
	return &ProductService{Repo: repo}
}

func (s *ProductService) Create(p *models.Product) (int64, error) {
	if strings.TrimSpace(p.ProductName) == "" {
		return 0, errors.New("product_name is required")
	}
	if p.UnitPrice < 0 {
		return 0, errors.New("unit_price must not be negative")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return s.Repo.Create(p)
}

func (s *ProductService) Update(p *models.Product) error {
	if strings.TrimSpace(p.ProductName) == "" {
		return errors.New("product_name is required")
	}
	if p.UnitPrice < 0 {
		return errors.New("unit_price must not be negative")
	}
	return s.Repo.Update(p)
}

func (s *ProductService) GetByID(id int) (*models.Product, error) {
	return s.Repo.GetByID(id)
}

func (s *ProductService) List(limit, offset int) ([]*models.Product, error) {
	return s.Repo.List(limit, offset)
}

func (s *ProductService) Delete(id int) error {
	return s.Repo.Delete(id)
}
