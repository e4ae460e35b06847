package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"mercadito/internal/domain"
	"mercadito/internal/repos"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInsufficientStock = errors.New("insufficient stock to complete the purchase")
	ErrSaleNotFound      = errors.New("sale not found")
	// ErrLedgerWrite means stock was decremented but the sale record could
	// not be appended; a compensating increment was attempted.
	ErrLedgerWrite = errors.New("could not record sale")
)

// SaleService turns a purchase request into exactly one ledger record, or
// fails cleanly with no side effect.
type SaleService struct {
	Products *repos.ProductRepo
	Sales    *repos.SaleRepo
}

func NewSaleService(products *repos.ProductRepo, sales *repos.SaleRepo) *SaleService {
	return &SaleService{Products: products, Sales: sales}
}

// Create validates the request, performs the guarded stock decrement and
// appends the sale. The unit price on the sale is the price returned by the
// decrement itself, so concurrent price edits cannot drift the total.
//
// Ordering is decrement-then-append: a crash between the two leaves stock
// conservatively low, never oversold. A failed append triggers a best-effort
// compensating increment and surfaces ErrLedgerWrite.
func (s *SaleService) Create(productID string, qty int, buyer string) (domain.Sale, error) {
	if qty < 1 {
		return domain.Sale{}, ErrInvalidQuantity
	}

	p, err := s.Products.TryDecrementStock(productID, qty)
	if err != nil {
		switch {
		case errors.Is(err, repos.ErrInsufficientStock):
			return domain.Sale{}, ErrInsufficientStock
		case errors.Is(err, sql.ErrNoRows):
			return domain.Sale{}, ErrProductNotFound
		default:
			return domain.Sale{}, fmt.Errorf("decrement stock: %w", err)
		}
	}

	buyer = strings.TrimSpace(buyer)
	if buyer == "" {
		buyer = domain.AnonymousBuyer
	}

	sale := domain.Sale{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Qty:       qty,
		UnitPrice: p.Price,
		Total:     p.Price * float64(qty),
		Buyer:     buyer,
	}

	created, err := s.Sales.Insert(sale)
	if err != nil {
		// Stock is already gone; put it back before reporting failure so
		// the failed request leaves no partial effect.
		if _, cerr := s.Products.IncrementStock(productID, qty); cerr != nil {
			// Compensation failed too: stock is now conservatively low.
			// Loud log so operators can reconcile by hand.
			log.Printf("[alarm] sale ledger append failed AND compensation failed: product=%s qty=%d append_err=%v comp_err=%v",
				productID, qty, err, cerr)
		} else {
			log.Printf("[alarm] sale ledger append failed, stock restored: product=%s qty=%d err=%v", productID, qty, err)
		}
		return domain.Sale{}, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}

	return created, nil
}

func (s *SaleService) Get(id string) (domain.Sale, error) {
	sale, err := s.Sales.Get(id)
	if err == sql.ErrNoRows {
		return domain.Sale{}, ErrSaleNotFound
	}
	return sale, err
}

func (s *SaleService) ListAll() ([]repos.SaleRow, error) { return s.Sales.ListAll() }

func (s *SaleService) ListByBuyer(buyer string) ([]repos.SaleRow, error) {
	return s.Sales.ListByBuyer(buyer)
}
