package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"mercadito/internal/config"
	"mercadito/internal/http/handlers"
	applog "mercadito/internal/log"
	"mercadito/internal/repos"
	"mercadito/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	// Explicit admin provisioning: credential from config, never a literal.
	if err := repos.EnsureAdmin(db, cfg.AdminUser, cfg.AdminPass); err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc, MediaDir: cfg.MediaDir}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard (also caps image uploads)
	app.Server().MaxRequestBodySize = 2 << 20 // 2 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /static -> ./web/static")
	log.Printf("[static] /media  -> %s", mediaDir)

	app.Static("/static", "./web/static")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)

	// Public storefront
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.CatalogHandler.Search)
	app.Get("/product/:id", deps.CatalogHandler.Detail)

	// API
	api := app.Group("/api/v1")
	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/availability", availLimiter, deps.InventoryHandler.Check)

	// Purchases
	app.Post("/buy", deps.PurchaseHandler.Buy)
	app.Get("/receipt/:id", deps.PurchaseHandler.Receipt)
	app.Get("/purchases", handlers.RequireUser(authSvc), deps.PurchaseHandler.History)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Post("/logout", authH.Logout)
	app.Get("/profile", handlers.RequireUser(authSvc), authH.Profile)
	app.Post("/profile", handlers.RequireUser(authSvc), authH.UpdateProfile)

	// Admin
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/admin/products") })
	admin.Get("/products", deps.AdminHandler.Products)
	admin.Get("/products/new", deps.AdminHandler.NewProductForm)
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Get("/products/:id/edit", deps.AdminHandler.EditProductForm)
	admin.Post("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Post("/products/:id/delete", deps.AdminHandler.DeleteProduct)
	admin.Post("/restock", deps.AdminHandler.Restock)
	admin.Get("/sales", deps.AdminHandler.SalesPage)
	admin.Get("/users", deps.AdminHandler.UsersPage)
	admin.Post("/users/:id/role", deps.AdminHandler.UpdateUserRole)
	admin.Post("/users/:id/delete", deps.AdminHandler.DeleteUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
