package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"mercadito/internal/domain"
	"mercadito/internal/repos"
)

var ErrInvalidProduct = errors.New("invalid product fields")

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) List() ([]domain.Product, error) {
	return s.Prods.List()
}

func (s *CatalogService) Search(q string) ([]domain.Product, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return s.Prods.List()
	}
	return s.Prods.SearchByName(q)
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err == sql.ErrNoRows {
		return domain.Product{}, ErrProductNotFound
	}
	return p, err
}

// CreateProduct validates and inserts a new catalog entry. An empty image
// falls back to the default sentinel.
func (s *CatalogService) CreateProduct(name string, price float64, stock int, category, image string) (domain.Product, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || category == "" || price < 0 || stock < 0 {
		return domain.Product{}, ErrInvalidProduct
	}
	p := domain.Product{
		ID:       uuid.NewString(),
		Name:     name,
		Price:    price,
		Stock:    stock,
		Category: category,
		Image:    image,
	}
	if p.Image == "" {
		p.Image = domain.DefaultProductImage
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

// UpdateProduct edits descriptive fields only; stock mutations go through
// the inventory service.
func (s *CatalogService) UpdateProduct(id, name string, price float64, category, image string) error {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || category == "" || price < 0 {
		return ErrInvalidProduct
	}
	err := s.Prods.Update(id, name, price, category, image)
	if err == sql.ErrNoRows {
		return ErrProductNotFound
	}
	return err
}

// DeleteProduct removes the product and reports its image reference so the
// caller can release the file when it is not the default sentinel.
func (s *CatalogService) DeleteProduct(id string) (image string, err error) {
	p, err := s.Prods.Get(id)
	if err == sql.ErrNoRows {
		return "", ErrProductNotFound
	}
	if err != nil {
		return "", err
	}
	if err := s.Prods.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrProductNotFound
		}
		return "", err
	}
	return p.Image, nil
}
