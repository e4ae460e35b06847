package repos

import (
	"github.com/jmoiron/sqlx"

	"mercadito/internal/domain"
)

// SaleRepo is the append-only sale ledger. Rows are never updated or
// deleted once written.
type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

func (r *SaleRepo) Insert(s domain.Sale) (domain.Sale, error) {
	err := r.db.Get(&s, `
	  INSERT INTO sales(id, product_id, qty, unit_price, total, buyer, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	  RETURNING id, product_id, qty, unit_price, total, buyer, created_at
	`, s.ID, s.ProductID, s.Qty, s.UnitPrice, s.Total, s.Buyer)
	return s, err
}

func (r *SaleRepo) Get(id string) (domain.Sale, error) {
	var s domain.Sale
	err := r.db.Get(&s, `
	  SELECT id, product_id, qty, unit_price, total, buyer, created_at
	  FROM sales WHERE id = ?
	`, id)
	return s, err
}

// SaleRow joins a denormalized product snapshot for display. The join is a
// read-side convenience: a deleted product leaves the ledger row intact and
// the name falls back to "(deleted)".
type SaleRow struct {
	ID           string  `db:"id"`
	ProductID    string  `db:"product_id"`
	ProductName  string  `db:"product_name"`
	Category     string  `db:"category"`
	CurrentPrice float64 `db:"current_price"`
	Qty          int     `db:"qty"`
	UnitPrice    float64 `db:"unit_price"`
	Total        float64 `db:"total"`
	Buyer        string  `db:"buyer"`
	CreatedAt    string  `db:"created_at"`
}

const saleRowSelect = `
  SELECT s.id, s.product_id,
         COALESCE(p.name, '(deleted)') AS product_name,
         COALESCE(p.category, '')      AS category,
         COALESCE(p.price, 0)          AS current_price,
         s.qty, s.unit_price, s.total, s.buyer, s.created_at
  FROM sales s
  LEFT JOIN products p ON p.id = s.product_id
`

// ListAll returns every sale, newest first. Ordering is stable across calls
// with no intervening writes.
func (r *SaleRepo) ListAll() ([]SaleRow, error) {
	var out []SaleRow
	err := r.db.Select(&out, saleRowSelect+`
	  ORDER BY datetime(s.created_at) DESC, s.rowid DESC
	`)
	return out, err
}

// ListByBuyer returns the sales recorded under a buyer identity, newest
// first. The match is against the historical free-text identity, so sales
// remain queryable after a user is renamed or deleted.
func (r *SaleRepo) ListByBuyer(buyer string) ([]SaleRow, error) {
	var out []SaleRow
	err := r.db.Select(&out, saleRowSelect+`
	  WHERE s.buyer = ?
	  ORDER BY datetime(s.created_at) DESC, s.rowid DESC
	`, buyer)
	return out, err
}
