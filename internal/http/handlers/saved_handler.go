package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"couponhub/internal/domain"
	applog "couponhub/internal/log"
	"couponhub/internal/services"
	"couponhub/internal/validate"
)

// SavedHandler serves the signed-in user's dashboard of saved coupons. Its routes sit
// behind RequireUser.
type SavedHandler struct {
	Saved *services.SavedService
}

func (h *SavedHandler) Dashboard(c *fiber.Ctx) error {
	items, err := h.Saved.List(c.UserContext(), currentUserID(c))
	if err != nil {
		applog.Error(c, "saved.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load your saved coupons")
	}
	return render(c, "dashboard", fiber.Map{"Items": items})
}

func (h *SavedHandler) Save(c *fiber.Ctx) error {
	cid, ok := validate.ID(c.FormValue("couponId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing couponId")
	}
	if err := h.Saved.Save(c.UserContext(), currentUserID(c), cid); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("coupon not found")
		}
		applog.Error(c, "saved.save.fail", err, map[string]any{"coupon": cid})
		return c.Status(fiber.StatusInternalServerError).SendString("Could not save coupon")
	}
	applog.Audit(c, "saved.save", map[string]any{"coupon": cid})
	return c.Redirect(backTo(c, "/dashboard"))
}

// backTo returns the same-host page the request came from, or fallback.
func backTo(c *fiber.Ctx, fallback string) string {
	ref, err := url.Parse(c.Get(fiber.HeaderReferer))
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Hostname()) {
		return fallback
	}
	return ref.RequestURI()
}

func (h *SavedHandler) Unsave(c *fiber.Ctx) error {
	cid, ok := validate.ID(c.FormValue("couponId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing couponId")
	}
	if err := h.Saved.Unsave(c.UserContext(), currentUserID(c), cid); err != nil {
		applog.Error(c, "saved.unsave.fail", err, map[string]any{"coupon": cid})
		return c.Status(fiber.StatusInternalServerError).SendString("Could not remove coupon")
	}
	applog.Audit(c, "saved.unsave", map[string]any{"coupon": cid})
	return c.Redirect("/dashboard")
}
