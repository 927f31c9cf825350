package handlers

import (
	"github.com/gofiber/fiber/v2"

	"couponhub/internal/log"
	"couponhub/internal/services"
)

// APIHandler exposes the list engine's results as JSON under /api/v1.
type APIHandler struct {
	Catalog         *services.CatalogService
	Search          *services.SearchService
	StoresPageSize  int
	CouponsPageSize int
	SearchPageSize  int
}

func badParam(c *fiber.Ctx, field string) error {
	log.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field})
}

func apiFail(c *fiber.Ctx, action string, err error) error {
	log.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "temporarily unavailable"})
}

func (h *APIHandler) Stores(c *fiber.Ctx) error {
	crit, bad := parseCriteria(c, h.StoresPageSize)
	if bad != "" {
		return badParam(c, bad)
	}
	res, err := h.Catalog.ListStores(c.UserContext(), crit)
	if err != nil {
		return apiFail(c, "api.stores.fail", err)
	}
	return c.JSON(res)
}

func (h *APIHandler) Coupons(c *fiber.Ctx) error {
	crit, bad := parseCriteria(c, h.CouponsPageSize)
	if bad != "" {
		return badParam(c, bad)
	}
	res, err := h.Catalog.ListCoupons(c.UserContext(), crit)
	if err != nil {
		return apiFail(c, "api.coupons.fail", err)
	}
	return c.JSON(res)
}

func (h *APIHandler) SearchHits(c *fiber.Ctx) error {
	crit, bad := parseCriteria(c, h.SearchPageSize)
	if bad != "" {
		return badParam(c, bad)
	}
	res, err := h.Search.Search(c.UserContext(), crit)
	if err != nil {
		return apiFail(c, "api.search.fail", err)
	}
	return c.JSON(res)
}
