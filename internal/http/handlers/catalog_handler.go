package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "mercadito/internal/log"
	"mercadito/internal/services"
	"mercadito/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// Home renders the storefront with the full catalog, newest first.
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	products, err := h.Catalog.List()
	if err != nil {
		applog.Error(c, "catalog.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the catalog"})
	}
	return render(c, "home", fiber.Map{"Products": products})
}

func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		return render(c, "search", fiber.Map{"Q": "", "Products": []any{}, "Count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
			"Q": "", "Products": []any{}, "Count": 0, "Err": "Enter a valid keyword (letters/numbers only)",
		})
	}
	products, err := h.Catalog.Search(q)
	if err != nil {
		applog.Error(c, "catalog.search.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load results. Please retry."})
	}
	return render(c, "search", fiber.Map{"Q": q, "Products": products, "Count": len(products)})
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		if !errors.Is(err, services.ErrProductNotFound) {
			applog.Error(c, "catalog.get.fail", err, map[string]any{"product": id})
		}
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	return render(c, "product", fiber.Map{"P": p})
}
