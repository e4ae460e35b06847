package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo catalog if DB is empty (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL CHECK (length(trim(name)) > 0),
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  category TEXT NOT NULL CHECK (length(trim(category)) > 0),
  image TEXT NOT NULL DEFAULT 'default_product.png',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Sales (append-only ledger; product_id is a weak reference so history
-- survives product deletion)
CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  unit_price NUMERIC NOT NULL CHECK (unit_price >= 0),
  total NUMERIC NOT NULL,
  buyer TEXT NOT NULL DEFAULT 'anonymous',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);
CREATE INDEX IF NOT EXISTS idx_sales_buyer      ON sales(buyer);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  avatar TEXT NOT NULL DEFAULT 'default.png',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,price,stock,category,image) VALUES
	  ('mate-001','Mate Imperial',24.50,12,'kitchen','default_product.png'),
	  ('poncho-001','Wool Poncho',59.99,4,'clothing','default_product.png'),
	  ('mapa-001','Vintage City Map',15.00,0,'decor','default_product.png')`)
	return tx.Commit()
}

// EnsureAdmin provisions the administrative account once, idempotently. The
// credential comes from configuration; when password is empty the step is
// skipped so deployments can opt out.
func EnsureAdmin(db *sqlx.DB, username, password string) error {
	if username == "" || password == "" {
		log.Println("[bootstrap] ADMIN_PASS unset, skipping admin provisioning")
		return nil
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(username)=LOWER(?)`, username); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id,name,username,password_hash,role)
		VALUES(?,?,?,?,'ADMIN')
		ON CONFLICT(username) DO NOTHING
	`, "u-"+username, "Administrator", username, string(h))
	if err == nil {
		log.Printf("[bootstrap] admin account %q provisioned", username)
	}
	return err
}
