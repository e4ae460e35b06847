package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"mercadito/internal/domain"
	applog "mercadito/internal/log"
	"mercadito/internal/services"
	"mercadito/internal/validate"
)

type PurchaseHandler struct {
	Sales *services.SaleService
	Auth  *services.AuthService
}

// Buy handles POST /buy: productId + qty from the form, buyer identity from
// the logged-in session when present. Business failures surface as a
// rejected purchase with a human-readable reason; no partial sale is ever
// visible.
func (h *PurchaseHandler) Buy(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid product")
	}
	qty := validate.Qty(c.FormValue("qty"))

	buyer := ""
	if u, okU := c.Locals("user").(*domain.User); okU && u != nil {
		buyer = u.Username
	}

	sale, err := h.Sales.Create(productID, qty, buyer)
	if err != nil {
		status, msg := purchaseFailure(err)
		applog.Security(c, "purchase.fail", map[string]any{"product": productID, "qty": qty, "error": err.Error()})
		return c.Status(status).Render("notfound", fiber.Map{"Message": msg})
	}

	applog.Audit(c, "purchase.ok", map[string]any{
		"sale_id": sale.ID, "product": sale.ProductID, "qty": sale.Qty, "total": sale.Total,
	})
	return c.Redirect("/receipt/" + sale.ID)
}

// Receipt shows a single completed sale. Named buyers only see their own
// receipts; admins see all; anonymous sales stay reachable by link.
func (h *PurchaseHandler) Receipt(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Receipt not found"})
	}
	sale, err := h.Sales.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Receipt not found"})
	}

	var username, role string
	if sid := c.Cookies("sid"); h.Auth != nil && sid != "" {
		if u, err := h.Auth.CurrentUser(sid); err == nil && u != nil {
			username, role = u.Username, u.Role
		}
	}
	if sale.Buyer != domain.AnonymousBuyer && sale.Buyer != username && role != "ADMIN" {
		applog.Security(c, "access.denied.receipt", map[string]any{"sale_id": id})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Receipt not found"})
	}
	return render(c, "receipt", fiber.Map{"Sale": sale})
}

// History lists the logged-in user's purchases, newest first.
func (h *PurchaseHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Purchases not available"})
	}
	sales, err := h.Sales.ListByBuyer(u.Username)
	if err != nil {
		applog.Error(c, "purchase.history.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load purchases"})
	}
	return render(c, "purchases", fiber.Map{"Sales": sales})
}

func purchaseFailure(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidQuantity):
		return fiber.StatusBadRequest, "Enter a valid quantity."
	case errors.Is(err, services.ErrProductNotFound):
		return fiber.StatusNotFound, "This item is no longer available."
	case errors.Is(err, services.ErrInsufficientStock):
		return fiber.StatusConflict, "Not enough stock to complete the purchase."
	case errors.Is(err, services.ErrLedgerWrite):
		return fiber.StatusInternalServerError, "The purchase could not be recorded. You have not been charged."
	default:
		return fiber.StatusInternalServerError, "Something went wrong. Please try again."
	}
}
