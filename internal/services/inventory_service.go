package services

import (
	"database/sql"
	"errors"

	"mercadito/internal/domain"
	"mercadito/internal/repos"
)

type InventoryService struct {
	Prods *repos.ProductRepo
}

func NewInventoryService(prods *repos.ProductRepo) *InventoryService {
	return &InventoryService{Prods: prods}
}

// Restock increases stock for an existing product. No upper bound applies.
func (s *InventoryService) Restock(productID string, qty int) (domain.Product, error) {
	if qty < 1 {
		return domain.Product{}, ErrInvalidQuantity
	}
	p, err := s.Prods.IncrementStock(productID, qty)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	return p, err
}

// CheckAvailability maps stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(productID string) (domain.Availability, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
		}
		return domain.Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case p.Stock >= 5:
		status = "IN_STOCK"
	case p.Stock > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: p.Stock}, nil
}
