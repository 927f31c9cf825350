package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"couponhub/internal/domain"
	"couponhub/internal/log"
	"couponhub/internal/services"
	"couponhub/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
	// SecureCookies marks the session cookie Secure; set behind HTTPS.
	SecureCookies bool
}

func (h *AuthHandler) setSID(c *fiber.Ctx, sid string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookies,
		Expires:  expires,
	})
}

// freshSID issues a new session id so a pre-login id is never promoted.
func (h *AuthHandler) freshSID(c *fiber.Ctx) string {
	sid := uuid.NewString()
	h.setSID(c, sid, time.Time{})
	return sid
}

func landing(u *domain.User) string {
	if u.IsAdmin() {
		return "/admin"
	}
	return "/dashboard"
}

func (h *AuthHandler) SigninForm(c *fiber.Ctx) error {
	return render(c, "signin", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	email := c.FormValue("email")
	pass := c.FormValue("password")
	fail := func(reason string) error {
		f := map[string]any{"email": email}
		if reason != "" {
			f["reason"] = reason
		}
		log.Security(c, "auth.login.fail", f)
		return render(c.Status(fiber.StatusUnauthorized), "signin", fiber.Map{"Err": "Invalid email or password", "Email": email})
	}
	if _, ok := validate.Email(email); !ok {
		return fail("bad_format")
	}
	if !validate.Password(pass) {
		return fail("bad_password_format")
	}

	u, err := h.Auth.Login(c.UserContext(), h.freshSID(c), email, pass)
	if errors.Is(err, domain.ErrBadCreds) {
		return fail("")
	}
	if err != nil {
		log.Error(c, "auth.login.error", err, map[string]any{"email": email})
		return message(c, fiber.StatusInternalServerError, "Could not sign you in. Please try again.")
	}

	c.Locals("user_id", u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect(landing(u))
}

func (h *AuthHandler) JoinForm(c *fiber.Ctx) error {
	return render(c, "join", fiber.Map{"Fields": map[string]string{}})
}

func (h *AuthHandler) Join(c *fiber.Ctx) error {
	in := services.JoinInput{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	if in.Password != c.FormValue("confirm") {
		return render(c.Status(fiber.StatusBadRequest), "join", fiber.Map{
			"Name": in.Name, "Email": in.Email,
			"Fields": map[string]string{"Confirm": "passwords do not match"},
		})
	}

	u, err := h.Auth.Register(c.UserContext(), h.freshSID(c), in)
	if err != nil {
		status := statusFor(err)
		data := fiber.Map{"Name": in.Name, "Email": in.Email, "Fields": fieldErrors(err)}
		switch status {
		case fiber.StatusConflict:
			data["Err"] = "An account with this email already exists"
			log.Security(c, "auth.join.fail", map[string]any{"email": in.Email, "reason": "taken"})
		case fiber.StatusBadRequest:
			log.Security(c, "auth.join.fail", map[string]any{"email": in.Email, "reason": "invalid"})
		default:
			log.Error(c, "auth.join.error", err, nil)
			return message(c, status, "Could not create your account. Please try again.")
		}
		return render(c.Status(status), "join", data)
	}

	c.Locals("user_id", u.ID)
	log.Audit(c, "auth.join.success", map[string]any{"email": u.Email})
	return c.Redirect("/dashboard")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid != "" {
		_ = h.Auth.Logout(c.UserContext(), sid)
	}
	// Expire cookie
	h.setSID(c, "", time.Now().Add(-1*time.Hour))
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
