package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "couponhub/internal/log"
	"couponhub/internal/services"
)

const homeItems = 8

type HomeHandler struct {
	Catalog *services.CatalogService
	Guides  *services.GuideService
}

func (h *HomeHandler) Home(c *fiber.Ctx) error {
	home, err := h.Catalog.Home(c.UserContext(), homeItems)
	if err != nil {
		applog.Error(c, "home.load.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load deals. Please retry.")
	}
	articles, err := h.Guides.List(c.UserContext(), 3)
	if err != nil {
		applog.Error(c, "home.guides.fail", err, nil)
	}
	return render(c, "home", fiber.Map{
		"Coupons":    home.Coupons,
		"Stores":     home.Stores,
		"Categories": home.Categories,
		"Articles":   articles,
	})
}
