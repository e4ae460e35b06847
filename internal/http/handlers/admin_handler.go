package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"mercadito/internal/domain"
	applog "mercadito/internal/log"
	"mercadito/internal/repos"
	"mercadito/internal/services"
	"mercadito/internal/validate"
)

type AdminHandler struct {
	Catalog  *services.CatalogService
	Inv      *services.InventoryService
	Sales    *services.SaleService
	Users    *repos.UserRepo
	MediaDir string
}

// GET /admin/products
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	products, err := h.Catalog.List()
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "admin_products", fiber.Map{"Products": products})
}

// GET /admin/products/new
func (h *AdminHandler) NewProductForm(c *fiber.Ctx) error {
	return render(c, "product_form", fiber.Map{"Err": ""})
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	name, okN := validate.Name(c.FormValue("name"))
	price, okP := validate.Price(c.FormValue("price"))
	stock, okS := validate.Stock(c.FormValue("stock"))
	category, okC := validate.Name(c.FormValue("category"))
	if !okN || !okP || !okS || !okC {
		return c.Status(400).Render("product_form", fiber.Map{"Err": "Check name, price, stock and category"})
	}

	image := ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		stored, err := saveImage(c, fh, h.MediaDir)
		if err != nil {
			return c.Status(400).Render("product_form", fiber.Map{"Err": "Image must be a jpg/png/gif/webp file"})
		}
		image = stored
	}

	p, err := h.Catalog.CreateProduct(name, price, stock, category, image)
	if err != nil {
		removeImage(h.MediaDir, image)
		applog.Error(c, "admin.products.create.fail", err, map[string]any{"name": name})
		return c.Status(400).Render("product_form", fiber.Map{"Err": "Could not create product"})
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID, "name": p.Name})
	return c.Redirect("/admin/products")
}

// GET /admin/products/:id/edit
func (h *AdminHandler) EditProductForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	return render(c, "product_edit", fiber.Map{"P": p, "Err": ""})
}

// POST /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}

	name, okN := validate.Name(c.FormValue("name"))
	price, okP := validate.Price(c.FormValue("price"))
	category, okC := validate.Name(c.FormValue("category"))
	if !okN || !okP || !okC {
		return c.Status(400).Render("product_edit", fiber.Map{"P": p, "Err": "Check name, price and category"})
	}

	image := p.Image
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		stored, serr := saveImage(c, fh, h.MediaDir)
		if serr != nil {
			return c.Status(400).Render("product_edit", fiber.Map{"P": p, "Err": "Image must be a jpg/png/gif/webp file"})
		}
		removeImage(h.MediaDir, p.Image)
		image = stored
	}

	if err := h.Catalog.UpdateProduct(id, name, price, category, image); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product": id})
		return c.Status(400).Render("product_edit", fiber.Map{"P": p, "Err": "Could not save changes"})
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	image, err := h.Catalog.DeleteProduct(id)
	if err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		return c.Status(400).SendString("could not delete product")
	}
	removeImage(h.MediaDir, image)
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return c.Redirect("/admin/products")
}

// POST /admin/restock
func (h *AdminHandler) Restock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	qty := validate.Qty(c.FormValue("qty"))
	if !ok || qty < 1 {
		return c.Status(400).SendString("invalid input")
	}
	p, err := h.Inv.Restock(id, qty)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(404).SendString("product not found")
		}
		applog.Error(c, "admin.restock.fail", err, map[string]any{"product": id, "qty": qty})
		return c.Status(400).SendString("could not restock")
	}
	applog.Audit(c, "admin.restock", map[string]any{"product": id, "qty": qty, "stock": p.Stock})
	return c.Redirect("/admin/products")
}

// GET /admin/sales
func (h *AdminHandler) SalesPage(c *fiber.Ctx) error {
	sales, err := h.Sales.ListAll()
	if err != nil {
		applog.Error(c, "admin.sales.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load sales"})
	}
	return render(c, "admin_sales", fiber.Map{"Sales": sales})
}

// GET /admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// POST /admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	role := c.FormValue("role")
	if !ok || (role != "USER" && role != "ADMIN") {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.Users.UpdateRole(id, role); err != nil {
		applog.Error(c, "admin.users.role.fail", err, map[string]any{"user_id": id})
		return c.Status(400).SendString("could not update role")
	}
	applog.Audit(c, "admin.users.role", map[string]any{"user_id": id, "role": role})
	return c.Redirect("/admin/users")
}

// POST /admin/users/:id/delete
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	u, err := h.Users.ByID(id)
	if err != nil {
		return c.Status(404).SendString("user not found")
	}
	if err := h.Users.Delete(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(400).SendString("could not delete user")
	}
	if u.Avatar != domain.DefaultAvatar {
		removeImage(h.MediaDir, u.Avatar)
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin/users")
}
