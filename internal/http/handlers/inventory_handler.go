package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"mercadito/internal/services"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// Check serves GET /api/v1/availability?productId=...
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID := strings.TrimSpace(c.Query("productId"))
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing productId",
		})
	}

	avail, err := h.Inv.CheckAvailability(productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(avail)
}
