package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"mercadito/internal/domain"
)

// ErrInsufficientStock is returned by TryDecrementStock when the product
// exists but holds fewer units than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, price, stock, category, image, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// List returns the whole catalog, newest first.
func (r *ProductRepo) List() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  ORDER BY datetime(created_at) DESC, rowid DESC
	`)
	return out, err
}

// SearchByName matches product names case-insensitively.
func (r *ProductRepo) SearchByName(q string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE LOWER(name) LIKE ?
	  ORDER BY datetime(created_at) DESC, rowid DESC
	`, "%"+q+"%")
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	if p.Image == "" {
		p.Image = domain.DefaultProductImage
	}
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, price, stock, category, image, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.ID, p.Name, p.Price, p.Stock, p.Category, p.Image)
	return err
}

// Update edits name/price/category/image. Stock is deliberately excluded:
// all stock writes go through TryDecrementStock and IncrementStock so the
// non-negative invariant is never bypassed by a raw overwrite.
func (r *ProductRepo) Update(id, name string, price float64, category, image string) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET name = ?, price = ?, category = ?, image = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, name, price, category, image, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// TryDecrementStock subtracts qty only if enough stock exists, as a single
// conditional UPDATE. Concurrent buyers of the last unit serialize here:
// exactly one row update wins, the loser sees ErrInsufficientStock. The
// returned product carries the price at the moment the decrement committed.
func (r *ProductRepo) TryDecrementStock(id string, qty int) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  UPDATE products
	  SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock >= ?
	  RETURNING `+productCols+`
	`, qty, id, qty)
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return domain.Product{}, err
	}
	// No row updated: distinguish a missing product from short stock.
	if _, gerr := r.Get(id); gerr != nil {
		return domain.Product{}, gerr
	}
	return domain.Product{}, ErrInsufficientStock
}

// IncrementStock adds qty with no upper bound; used by restocking and by the
// sale path as compensation when a ledger append fails after a decrement.
func (r *ProductRepo) IncrementStock(id string, qty int) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  UPDATE products
	  SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	  RETURNING `+productCols+`
	`, qty, id)
	return p, err
}
