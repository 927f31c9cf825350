package handlers

import (
	"github.com/gofiber/fiber/v2"

	"couponhub/internal/listquery"
	"couponhub/internal/log"
	"couponhub/internal/services"
	"couponhub/internal/validate"
)

type CouponHandler struct {
	Catalog  *services.CatalogService
	Saved    *services.SavedService
	PageSize int
}

// List is the coupon browser: discount type/range, expiry, sort and pages.
func (h *CouponHandler) List(c *fiber.Ctx) error {
	crit, bad := parseCriteria(c, h.PageSize)
	if bad != "" {
		log.Security(c, "validation.fail", map[string]any{"field": bad})
		crit = listquery.Criteria{PageSize: h.PageSize, Page: 1}
		c.Status(fiber.StatusBadRequest)
	}
	ctx := c.UserContext()
	res, err := h.Catalog.ListCoupons(ctx, crit)
	if err != nil {
		log.Error(c, "coupons.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load coupons. Please retry.")
	}
	saved, err := h.Saved.IDs(ctx, currentUserID(c))
	if err != nil {
		log.Error(c, "coupons.saved.fail", err, nil)
	}
	data := fiber.Map{
		"Result": res,
		"Pager":  res.Pager(),
		"Saved":  saved,
		"C":      crit,
		"Links":  Links{Path: "/coupons", C: crit},
	}
	if bad != "" {
		data["Err"] = "Invalid filter"
	}
	return render(c, "coupons", data)
}

// Reveal handles POST /coupons/:id/reveal and answers with the code or deal link.
func (h *CouponHandler) Reveal(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coupon"})
	}
	cp, err := h.Catalog.Reveal(c.UserContext(), id)
	if err != nil {
		status := statusFor(err)
		if status == fiber.StatusInternalServerError {
			log.Error(c, "coupon.reveal.fail", err, map[string]any{"coupon": id})
			return c.Status(status).JSON(fiber.Map{"error": "could not reveal coupon"})
		}
		return c.Status(status).JSON(fiber.Map{"error": "coupon not found"})
	}
	log.Info(c, "coupon.reveal", map[string]any{"coupon": id, "store": cp.StoreID})
	return c.JSON(fiber.Map{"id": cp.ID, "code": cp.Code, "link": cp.Link, "hasCode": cp.HasCode()})
}
