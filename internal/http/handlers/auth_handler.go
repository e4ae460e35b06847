package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mercadito/internal/domain"
	"mercadito/internal/log"
	"mercadito/internal/services"
	"mercadito/internal/validate"
)

type AuthHandler struct {
	Auth     *services.AuthService
	MediaDir string
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username, okU := validate.Username(c.FormValue("username"))
	pass := c.FormValue("password")
	if !okU || !validate.Password(pass) {
		log.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid username or password"})
	}

	u, err := h.Auth.Login(sid, username, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"username": username})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid username or password"})
	}

	log.Audit(c, "auth.login.success", map[string]any{"username": username})
	if u.Role == "ADMIN" {
		return c.Redirect("/admin/products")
	}
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	name, okN := validate.Name(c.FormValue("name"))
	username, okU := validate.Username(c.FormValue("username"))
	pass := c.FormValue("password")
	if !okN || !okU {
		return c.Status(400).Render("register", fiber.Map{"Err": "Enter a valid name and username"})
	}
	if !validate.Password(pass) {
		return c.Status(400).Render("register", fiber.Map{"Err": "Password needs 8+ chars with upper, lower and digit"})
	}

	avatar := ""
	if fh, err := c.FormFile("avatar"); err == nil && fh != nil {
		stored, err := saveImage(c, fh, h.MediaDir)
		if err != nil {
			log.Security(c, "auth.register.upload.fail", map[string]any{"file": fh.Filename})
			return c.Status(400).Render("register", fiber.Map{"Err": "Avatar must be an image file"})
		}
		avatar = stored
	}

	_, err := h.Auth.Register(name, username, pass, avatar)
	if err != nil {
		removeImage(h.MediaDir, avatar)
		if err == services.ErrUsernameTaken {
			return c.Status(400).Render("register", fiber.Map{"Err": "That username is taken"})
		}
		log.Error(c, "auth.register.fail", err, map[string]any{"username": username})
		return c.Status(500).Render("register", fiber.Map{"Err": "Could not create the account"})
	}

	log.Audit(c, "auth.register", map[string]any{"username": username})
	return c.Redirect("/login")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}

// Profile shows the logged-in user's details.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	return render(c, "profile", fiber.Map{"U": u, "Err": ""})
}

// UpdateProfile edits display name and avatar. The previous non-default
// avatar file is removed once replaced.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).Render("profile", fiber.Map{"U": u, "Err": "Enter a valid name"})
	}

	avatar := u.Avatar
	if fh, err := c.FormFile("avatar"); err == nil && fh != nil {
		stored, err := saveImage(c, fh, h.MediaDir)
		if err != nil {
			return c.Status(400).Render("profile", fiber.Map{"U": u, "Err": "Avatar must be an image file"})
		}
		removeImage(h.MediaDir, u.Avatar)
		avatar = stored
	}

	if err := h.Auth.Users.UpdateProfile(u.ID, name, avatar); err != nil {
		log.Error(c, "profile.update.fail", err, map[string]any{"user_id": u.ID})
		return c.Status(500).Render("profile", fiber.Map{"U": u, "Err": "Could not save changes"})
	}
	log.Audit(c, "profile.update", map[string]any{"user_id": u.ID})
	return c.Redirect("/profile")
}
