package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"mercadito/internal/config"
	"mercadito/internal/http/handlers"
	"mercadito/internal/repos"
	"mercadito/internal/services"
)

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Each pooled connection would get its own empty :memory: database.
	db.SetMaxOpenConns(1)

	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, config.Config{MediaDir: t.TempDir()}, authSvc)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	app.Get("/product/:id", deps.CatalogHandler.Detail)
	app.Post("/buy", deps.PurchaseHandler.Buy)
	app.Get("/receipt/:id", deps.PurchaseHandler.Receipt)
	app.Get("/api/v1/availability", deps.InventoryHandler.Check)
	return app, db
}

func postForm(t *testing.T, app *fiber.App, path, csrfTok, body string) *http.Response {
	t.Helper()
	form := body
	if csrfTok != "" {
		form = "csrf=" + csrfTok + "&" + body
	}
	req := httptest.NewRequest("POST", path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if csrfTok != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestBuyEndToEnd(t *testing.T) {
	app, db := newTestApp(t)

	// fetch csrf token via the product page (seeded by OpenDB)
	respPage, err := app.Test(httptest.NewRequest("GET", "/product/mate-001", nil))
	if err != nil {
		t.Fatal(err)
	}
	if respPage.StatusCode != http.StatusOK {
		t.Fatalf("product page: %d", respPage.StatusCode)
	}
	csrfTok := extractCookie(respPage, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	resp := postForm(t, app, "/buy", csrfTok, "productId=mate-001&qty=2")
	if resp.StatusCode != http.StatusFound {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected redirect to receipt, got %d: %s", resp.StatusCode, b)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/receipt/") {
		t.Fatalf("bad redirect target: %s", loc)
	}

	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id='mate-001'`); err != nil {
		t.Fatal(err)
	}
	if stock != 10 {
		t.Fatalf("want stock 10 after buying 2 of 12, got %d", stock)
	}

	// receipt renders
	respReceipt, err := app.Test(httptest.NewRequest("GET", loc, nil))
	if err != nil {
		t.Fatal(err)
	}
	if respReceipt.StatusCode != http.StatusOK {
		t.Fatalf("receipt page: %d", respReceipt.StatusCode)
	}
}

func TestBuyRejectsBadRequests(t *testing.T) {
	app, db := newTestApp(t)

	respPage, _ := app.Test(httptest.NewRequest("GET", "/product/mate-001", nil))
	csrfTok := extractCookie(respPage, "csrf_")

	// invalid quantity
	resp := postForm(t, app, "/buy", csrfTok, "productId=mate-001&qty=0")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("qty=0: want 400, got %d", resp.StatusCode)
	}

	// unknown product
	resp = postForm(t, app, "/buy", csrfTok, "productId=ghost-999&qty=1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product: want 404, got %d", resp.StatusCode)
	}

	// oversell
	resp = postForm(t, app, "/buy", csrfTok, "productId=mate-001&qty=9999")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("oversell: want 409, got %d", resp.StatusCode)
	}

	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id='mate-001'`); err != nil {
		t.Fatal(err)
	}
	if stock != 12 {
		t.Fatalf("failed purchases must not move stock, got %d", stock)
	}
	var sales int
	if err := db.Get(&sales, `SELECT COUNT(*) FROM sales`); err != nil {
		t.Fatal(err)
	}
	if sales != 0 {
		t.Fatalf("ledger must stay empty, got %d", sales)
	}
}

func TestAvailabilityAPI(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/availability?productId=mate-001", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out struct {
		Status string `json:"status"`
		Qty    int    `json:"qty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "IN_STOCK" || out.Qty != 12 {
		t.Fatalf("unexpected availability: %+v", out)
	}

	// missing productId
	resp, _ = app.Test(httptest.NewRequest("GET", "/api/v1/availability", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}
