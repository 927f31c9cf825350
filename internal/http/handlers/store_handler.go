package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"couponhub/internal/domain"
	"couponhub/internal/listquery"
	"couponhub/internal/log"
	"couponhub/internal/services"
	"couponhub/internal/validate"
)

type StoreHandler struct {
	Catalog  *services.CatalogService
	Reviews  *services.ReviewService
	Saved    *services.SavedService
	PageSize int
}

// Directory is the A-Z store list with category chips.
func (h *StoreHandler) Directory(c *fiber.Ctx) error {
	crit, bad := parseCriteria(c, h.PageSize)
	if bad != "" {
		log.Security(c, "validation.fail", map[string]any{"field": bad})
		crit = listquery.Criteria{PageSize: h.PageSize, Page: 1}
		c.Status(fiber.StatusBadRequest)
	}
	d, err := h.Catalog.StoreDirectory(c.UserContext(), crit)
	if err != nil {
		log.Error(c, "stores.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load stores. Please retry.")
	}
	data := fiber.Map{
		"Result":     d.Result,
		"Pager":      d.Result.Pager(),
		"Categories": d.Categories,
		"Letters":    append([]string{listquery.LetterAll}, listquery.Letters()...),
		"C":          crit,
		"Links":      Links{Path: "/stores", C: crit},
	}
	if bad != "" {
		data["Err"] = "Invalid filter"
	}
	return render(c, "stores", data)
}

func (h *StoreHandler) Detail(c *fiber.Ctx) error {
	return h.detail(c, fiber.StatusOK, fiber.Map{})
}

func (h *StoreHandler) detail(c *fiber.Ctx, status int, data fiber.Map) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "store"})
		return message(c, fiber.StatusNotFound, "This store is no longer available")
	}
	ctx := c.UserContext()
	d, err := h.Catalog.StoreDetail(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return message(c, fiber.StatusNotFound, "This store is no longer available")
	}
	if err != nil {
		log.Error(c, "store.detail.fail", err, map[string]any{"store": id})
		return message(c, fiber.StatusInternalServerError, "Could not load this store. Please retry.")
	}
	reviews, rating, err := h.Reviews.List(ctx, id)
	if err != nil {
		log.Error(c, "store.reviews.fail", err, map[string]any{"store": id})
	}
	saved, err := h.Saved.IDs(ctx, currentUserID(c))
	if err != nil {
		log.Error(c, "store.saved.fail", err, nil)
	}
	data["Store"] = d.Store
	data["Coupons"] = d.Coupons
	data["Reviews"] = reviews
	data["Rating"] = rating
	data["Saved"] = saved
	if _, ok := data["Fields"]; !ok {
		data["Fields"] = map[string]string{}
	}
	return render(c.Status(status), "store", data)
}

// SubmitReview handles POST /store/:id/reviews.
func (h *StoreHandler) SubmitReview(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return message(c, fiber.StatusNotFound, "This store is no longer available")
	}
	rating, _ := strconv.Atoi(c.FormValue("rating"))
	in := services.ReviewInput{
		Rating:  rating,
		Title:   c.FormValue("title"),
		Comment: c.FormValue("comment"),
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
	}
	rv, err := h.Reviews.Submit(c.UserContext(), id, in)
	if err != nil {
		status := statusFor(err)
		if status == fiber.StatusBadRequest {
			log.Security(c, "validation.fail", map[string]any{"field": "review", "store": id})
			return h.detail(c, status, fiber.Map{"Fields": fieldErrors(err), "Draft": in})
		}
		if status == fiber.StatusNotFound {
			return message(c, status, "This store is no longer available")
		}
		log.Error(c, "review.create.fail", err, map[string]any{"store": id})
		return message(c, status, "Could not save your review. Please retry.")
	}
	log.Info(c, "review.create", map[string]any{"store": id, "review": rv.ID, "rating": rv.Rating})
	return c.Redirect("/store/" + id + "#reviews")
}

// Vote handles POST /reviews/:id/vote with helpful=yes|no.
func (h *StoreHandler) Vote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid review")
	}
	helpful := c.FormValue("helpful") != "no"
	storeID, err := h.Reviews.Vote(c.UserContext(), id, helpful)
	if err != nil {
		status := statusFor(err)
		if status == fiber.StatusInternalServerError {
			log.Error(c, "review.vote.fail", err, map[string]any{"review": id})
		}
		return c.Status(status).SendString("could not record vote")
	}
	return c.Redirect("/store/" + storeID + "#reviews")
}
