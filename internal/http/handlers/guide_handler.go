package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"couponhub/internal/domain"
	"couponhub/internal/log"
	"couponhub/internal/services"
	"couponhub/internal/validate"
)

type GuideHandler struct {
	Guides *services.GuideService
}

func (h *GuideHandler) List(c *fiber.Ctx) error {
	articles, err := h.Guides.List(c.UserContext(), 0)
	if err != nil {
		log.Error(c, "guides.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load saving guides. Please retry.")
	}
	return render(c, "guides", fiber.Map{"Articles": articles})
}

func (h *GuideHandler) Article(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return message(c, fiber.StatusNotFound, "This article is no longer available")
	}
	a, err := h.Guides.Get(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return message(c, fiber.StatusNotFound, "This article is no longer available")
	}
	if err != nil {
		log.Error(c, "guides.article.fail", err, map[string]any{"article": id})
		return message(c, fiber.StatusInternalServerError, "Could not load this article. Please retry.")
	}
	return render(c, "article", fiber.Map{"Article": a})
}
