package repos_test

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"mercadito/internal/domain"
	"mercadito/internal/repos"
)

func seedSales(t *testing.T, r *repos.SaleRepo) []domain.Sale {
	t.Helper()
	var out []domain.Sale
	// Same-second inserts: rowid keeps newest-first stable.
	for _, s := range []domain.Sale{
		{ID: "s1", ProductID: "p-old", Qty: 1, UnitPrice: 10, Total: 10, Buyer: "alice"},
		{ID: "s2", ProductID: "p-old", Qty: 2, UnitPrice: 10, Total: 20, Buyer: "bob"},
		{ID: "s3", ProductID: "p-new", Qty: 1, UnitPrice: 59.99, Total: 59.99, Buyer: "alice"},
	} {
		created, err := r.Insert(s)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, created)
	}
	return out
}

func TestSaleRepo_ListAllNewestFirst(t *testing.T) {
	db := memdb(t)
	r := repos.NewSaleRepo(db)
	seedSales(t, r)

	rows, err := r.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	ids := []string{rows[0].ID, rows[1].ID, rows[2].ID}
	if !reflect.DeepEqual(ids, []string{"s3", "s2", "s1"}) {
		t.Fatalf("bad order: %v", ids)
	}

	// reads are idempotent: same sequence with no intervening writes
	again, err := r.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rows, again) {
		t.Fatalf("repeated read differs:\n%+v\n%+v", rows, again)
	}
}

func TestSaleRepo_ListByBuyer(t *testing.T) {
	db := memdb(t)
	r := repos.NewSaleRepo(db)
	seedSales(t, r)

	rows, err := r.ListByBuyer("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].ID != "s3" || rows[1].ID != "s1" {
		t.Fatalf("bad buyer listing: %+v", rows)
	}
	none, err := r.ListByBuyer("nobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Fatalf("want no rows, got %+v", none)
	}
}

func TestSaleRepo_ProductJoinSurvivesDeletion(t *testing.T) {
	db := memdb(t)
	r := repos.NewSaleRepo(db)
	seedSales(t, r)

	// Delete a referenced product: the ledger row must remain readable with
	// its snapshot intact.
	if _, err := db.Exec(`DELETE FROM products WHERE id='p-new'`); err != nil {
		t.Fatal(err)
	}
	rows, err := r.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("ledger shrank after product delete: %d rows", len(rows))
	}
	top := rows[0]
	if top.ID != "s3" || top.ProductName != "(deleted)" || top.UnitPrice != 59.99 {
		t.Fatalf("snapshot lost: %+v", top)
	}
}

func TestSaleRepo_Get(t *testing.T) {
	db := memdb(t)
	r := repos.NewSaleRepo(db)
	created := seedSales(t, r)

	got, err := r.Get(created[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 10 || got.Buyer != "alice" {
		t.Fatalf("unexpected sale: %+v", got)
	}
	if _, err := r.Get("missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want ErrNoRows, got %v", err)
	}
}
