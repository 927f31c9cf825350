package handlers

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"

	"couponhub/internal/domain"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Fallback for handlers mounted without the locals middleware (tests, edge cases)
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// message renders the shared message page.
func message(c *fiber.Ctx, status int, msg string) error {
	return render(c.Status(status), "notfound", fiber.Map{"Message": msg})
}

// statusFor maps the domain sentinels onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalid):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrBadCreds):
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}

// fieldErrors flattens ozzo field errors for templates, keyed by field name.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validation.Errors
	if errors.As(err, &ve) {
		for k, v := range ve {
			out[k] = v.Error()
		}
	}
	return out
}
