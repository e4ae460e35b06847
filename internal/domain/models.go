package domain

// DefaultProductImage is stored when a product has no uploaded picture.
const DefaultProductImage = "default_product.png"

// AnonymousBuyer is recorded on sales placed without an identity.
const AnonymousBuyer = "anonymous"

type Product struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	Price     float64 `db:"price"`
	Stock     int     `db:"stock"`
	Category  string  `db:"category"`
	Image     string  `db:"image"`
	CreatedAt string  `db:"created_at"`
	UpdatedAt string  `db:"updated_at"`
}

// Sale is immutable once created. UnitPrice is the price snapshot taken at
// the moment the stock decrement committed; Total is always Qty*UnitPrice.
type Sale struct {
	ID        string  `db:"id"`
	ProductID string  `db:"product_id"`
	Qty       int     `db:"qty"`
	UnitPrice float64 `db:"unit_price"`
	Total     float64 `db:"total"`
	Buyer     string  `db:"buyer"`
	CreatedAt string  `db:"created_at"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}
