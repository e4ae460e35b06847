package services_test

import (
	"errors"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"mercadito/internal/repos"
	"mercadito/internal/services"
)

func TestInventoryService_CheckAvailability(t *testing.T) {
	db := memdb(t)
	svc := services.NewInventoryService(repos.NewProductRepo(db))

	// in stock (5 units)
	a, err := svc.CheckAvailability("p1")
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != "IN_STOCK" || a.Qty != 5 {
		t.Fatalf("want IN_STOCK(5), got %+v", a)
	}

	// zero stock
	a, err = svc.CheckAvailability("p-empty")
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != "OUT_OF_STOCK" {
		t.Fatalf("want OUT_OF_STOCK, got %+v", a)
	}

	// unknown product treated as out of stock
	a, err = svc.CheckAvailability("nope")
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != "OUT_OF_STOCK" || a.Qty != 0 {
		t.Fatalf("want OUT_OF_STOCK(0), got %+v", a)
	}

	// low stock band
	if _, err := db.Exec(`UPDATE products SET stock=2 WHERE id='p1'`); err != nil {
		t.Fatal(err)
	}
	a, err = svc.CheckAvailability("p1")
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != "LOW_STOCK" || a.Qty != 2 {
		t.Fatalf("want LOW_STOCK(2), got %+v", a)
	}
}

func TestInventoryService_Restock(t *testing.T) {
	db := memdb(t)
	svc := services.NewInventoryService(repos.NewProductRepo(db))

	p, err := svc.Restock("p-empty", 7)
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 7 {
		t.Fatalf("want stock=7, got %d", p.Stock)
	}

	if _, err := svc.Restock("p-empty", 0); !errors.Is(err, services.ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.Restock("p-empty", -4); !errors.Is(err, services.ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.Restock("nope", 3); !errors.Is(err, services.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}
}
