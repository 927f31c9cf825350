package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"couponhub/internal/domain"
	"couponhub/internal/listquery"
	"couponhub/internal/log"
	"couponhub/internal/services"
)

type SearchHandler struct {
	Search   *services.SearchService
	PageSize int
}

var searchTabs = []string{listquery.TabAll, domain.KindStore, domain.KindCoupon}

func (h *SearchHandler) Results(c *fiber.Ctx) error {
	if strings.TrimSpace(c.Query("q")) == "" {
		// Initial page load: show empty search without errors
		crit := listquery.Criteria{PageSize: h.PageSize, Page: 1, Tab: listquery.TabAll}
		return render(c, "search", fiber.Map{
			"Q": "", "Result": listquery.Run([]domain.SearchHit{}, crit), "Tabs": searchTabs,
			"C": crit, "Links": Links{Path: "/search", C: crit},
		})
	}
	crit, bad := parseCriteria(c, h.PageSize)
	if bad != "" {
		log.Security(c, "validation.fail", map[string]any{"field": bad, "value": c.Query(bad)})
		empty := listquery.Criteria{PageSize: h.PageSize, Page: 1, Tab: listquery.TabAll}
		return render(c.Status(fiber.StatusBadRequest), "search", fiber.Map{
			"Q": "", "Result": listquery.Run([]domain.SearchHit{}, empty), "Tabs": searchTabs,
			"C": empty, "Links": Links{Path: "/search", C: empty},
			"Err": "Enter a valid keyword (letters, numbers and basic punctuation)",
		})
	}

	res, err := h.Search.Search(c.UserContext(), crit)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load results. Please retry.")
	}
	return render(c, "search", fiber.Map{
		"Q":      crit.Term,
		"Result": res,
		"Pager":  res.Pager(),
		"Tabs":   searchTabs,
		"C":      crit,
		"Links":  Links{Path: "/search", C: crit},
	})
}
