package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"couponhub/internal/listquery"
	applog "couponhub/internal/log"
	"couponhub/internal/services"
	"couponhub/internal/validate"
)

const adminPageSize = 20

type AdminHandler struct {
	Admin     *services.AdminService
	Catalog   *services.CatalogService
	Analytics *services.AnalyticsService
	Now       func() time.Time
}

func (h *AdminHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	ov, err := h.Analytics.Overview(c.UserContext(), h.now())
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load the dashboard")
	}
	return render(c, "admin_dashboard", fiber.Map{"O": ov})
}

// GET /admin/analytics
func (h *AdminHandler) AnalyticsPage(c *fiber.Ctx) error {
	ov, err := h.Analytics.Overview(c.UserContext(), h.now())
	if err != nil {
		applog.Error(c, "admin.analytics.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load analytics")
	}
	return render(c, "admin_analytics", fiber.Map{"O": ov})
}

// adminCriteria is the name-prefix search and pager shared by the admin lists.
func adminCriteria(c *fiber.Ctx) listquery.Criteria {
	crit := listquery.Criteria{Page: validate.Page(c.Query("page")), PageSize: adminPageSize, Sort: listquery.SortName}
	if q, ok := validate.Q(c.Query("q")); ok {
		crit.Term = q
	}
	return crit
}

// writeFailed logs a rejected admin write and re-renders the list with the errors.
func writeFailed(c *fiber.Ctx, action string, err error, list func(int, fiber.Map) error) error {
	status := statusFor(err)
	data := fiber.Map{"Fields": fieldErrors(err)}
	switch status {
	case fiber.StatusBadRequest:
		applog.Security(c, "validation.fail", map[string]any{"action": action})
		data["Err"] = "Please fix the highlighted fields"
	case fiber.StatusConflict:
		data["Err"] = "That name is already taken"
	case fiber.StatusNotFound:
		data["Err"] = "That record no longer exists"
	default:
		applog.Error(c, action+".fail", err, nil)
		return message(c, status, "Could not save changes. Please retry.")
	}
	return list(status, data)
}

// ---------- stores ----------

func (h *AdminHandler) Stores(c *fiber.Ctx) error {
	return h.storesPage(c, fiber.StatusOK, fiber.Map{})
}

func (h *AdminHandler) storesPage(c *fiber.Ctx, status int, data fiber.Map) error {
	crit := adminCriteria(c)
	res, err := h.Catalog.ListStores(c.UserContext(), crit)
	if err != nil {
		applog.Error(c, "admin.stores.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load stores")
	}
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
	}
	data["Result"] = res
	data["Pager"] = res.Pager()
	data["Links"] = Links{Path: "/admin/stores", C: crit}
	data["Categories"] = cats
	if _, ok := data["Fields"]; !ok {
		data["Fields"] = map[string]string{}
	}
	if id := c.Query("edit"); id != "" {
		if st, err := h.Admin.Stores.Get(c.UserContext(), id); err == nil {
			data["Edit"] = st
		}
	}
	return render(c.Status(status), "admin_stores", data)
}

func storeInput(c *fiber.Ctx) services.StoreInput {
	return services.StoreInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		LogoURL:     c.FormValue("logo_url"),
		Website:     c.FormValue("website"),
		Category:    c.FormValue("category"),
	}
}

func (h *AdminHandler) CreateStore(c *fiber.Ctx) error {
	in := storeInput(c)
	st, err := h.Admin.CreateStore(c.UserContext(), in)
	if err != nil {
		return writeFailed(c, "admin.store.create", err, func(status int, data fiber.Map) error {
			data["Draft"] = in
			return h.storesPage(c, status, data)
		})
	}
	applog.Audit(c, "admin.store.create", map[string]any{"store": st.ID, "name": st.Name})
	return c.Redirect("/admin/stores")
}

func (h *AdminHandler) UpdateStore(c *fiber.Ctx) error {
	id := c.Params("id")
	in := storeInput(c)
	st, err := h.Admin.UpdateStore(c.UserContext(), id, in)
	if err != nil {
		return writeFailed(c, "admin.store.update", err, func(status int, data fiber.Map) error {
			data["Draft"] = in
			data["EditID"] = id
			return h.storesPage(c, status, data)
		})
	}
	applog.Audit(c, "admin.store.update", map[string]any{"store": st.ID, "name": st.Name})
	return c.Redirect("/admin/stores")
}

func (h *AdminHandler) DeleteStore(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Admin.DeleteStore(c.UserContext(), id); err != nil {
		return writeFailed(c, "admin.store.delete", err, func(status int, data fiber.Map) error {
			return h.storesPage(c, status, data)
		})
	}
	applog.Audit(c, "admin.store.delete", map[string]any{"store": id})
	return c.Redirect("/admin/stores")
}

// ---------- coupons ----------

func (h *AdminHandler) Coupons(c *fiber.Ctx) error {
	return h.couponsPage(c, fiber.StatusOK, fiber.Map{})
}

func (h *AdminHandler) couponsPage(c *fiber.Ctx, status int, data fiber.Map) error {
	ctx := c.UserContext()
	crit := adminCriteria(c)
	res, err := h.Catalog.ListCoupons(ctx, crit)
	if err != nil {
		applog.Error(c, "admin.coupons.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load coupons")
	}
	stores, err := h.Catalog.AllStores(ctx)
	if err != nil {
		applog.Error(c, "admin.stores.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load stores")
	}
	data["Result"] = res
	data["Pager"] = res.Pager()
	data["Links"] = Links{Path: "/admin/coupons", C: crit}
	data["Stores"] = stores
	if _, ok := data["Fields"]; !ok {
		data["Fields"] = map[string]string{}
	}
	if id := c.Query("edit"); id != "" {
		if cp, err := h.Admin.Coupons.Get(ctx, id); err == nil {
			data["Edit"] = cp
		}
	}
	return render(c.Status(status), "admin_coupons", data)
}

func couponInput(c *fiber.Ctx) services.CouponInput {
	return services.CouponInput{
		StoreID:     c.FormValue("store_id"),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Code:        c.FormValue("code"),
		Discount:    c.FormValue("discount"),
		Link:        c.FormValue("link"),
		Exclusive:   c.FormValue("exclusive") == "on" || c.FormValue("exclusive") == "true",
		ExpiryDate:  c.FormValue("expiry_date"),
	}
}

func (h *AdminHandler) CreateCoupon(c *fiber.Ctx) error {
	in := couponInput(c)
	cp, err := h.Admin.CreateCoupon(c.UserContext(), in)
	if err != nil {
		return writeFailed(c, "admin.coupon.create", err, func(status int, data fiber.Map) error {
			data["Draft"] = in
			return h.couponsPage(c, status, data)
		})
	}
	applog.Audit(c, "admin.coupon.create", map[string]any{"coupon": cp.ID, "store": cp.StoreID, "title": cp.Title})
	return c.Redirect("/admin/coupons")
}

func (h *AdminHandler) UpdateCoupon(c *fiber.Ctx) error {
	id := c.Params("id")
	in := couponInput(c)
	cp, err := h.Admin.UpdateCoupon(c.UserContext(), id, in)
	if err != nil {
		return writeFailed(c, "admin.coupon.update", err, func(status int, data fiber.Map) error {
			data["Draft"] = in
			data["EditID"] = id
			return h.couponsPage(c, status, data)
		})
	}
	applog.Audit(c, "admin.coupon.update", map[string]any{"coupon": cp.ID, "store": cp.StoreID})
	return c.Redirect("/admin/coupons")
}

func (h *AdminHandler) DeleteCoupon(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Admin.DeleteCoupon(c.UserContext(), id); err != nil {
		return writeFailed(c, "admin.coupon.delete", err, func(status int, data fiber.Map) error {
			return h.couponsPage(c, status, data)
		})
	}
	applog.Audit(c, "admin.coupon.delete", map[string]any{"coupon": id})
	return c.Redirect("/admin/coupons")
}

// ---------- categories ----------

func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	return h.categoriesPage(c, fiber.StatusOK, fiber.Map{})
}

func (h *AdminHandler) categoriesPage(c *fiber.Ctx, status int, data fiber.Map) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load categories")
	}
	data["Categories"] = cats
	if _, ok := data["Fields"]; !ok {
		data["Fields"] = map[string]string{}
	}
	if id := c.Query("edit"); id != "" {
		for _, cat := range cats {
			if cat.ID == id {
				data["Edit"] = cat
			}
		}
	}
	return render(c.Status(status), "admin_categories", data)
}

func categoryInput(c *fiber.Ctx) services.CategoryInput {
	order, _ := strconv.Atoi(c.FormValue("display_order"))
	return services.CategoryInput{
		Name:         c.FormValue("name"),
		Slug:         c.FormValue("slug"),
		Description:  c.FormValue("description"),
		IconURL:      c.FormValue("icon_url"),
		DisplayOrder: order,
	}
}

func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	in := categoryInput(c)
	cat, err := h.Admin.CreateCategory(c.UserContext(), in)
	if err != nil {
		return writeFailed(c, "admin.category.create", err, func(status int, data fiber.Map) error {
			data["Draft"] = in
			return h.categoriesPage(c, status, data)
		})
	}
	applog.Audit(c, "admin.category.create", map[string]any{"category": cat.ID, "name": cat.Name, "slug": cat.Slug})
	return c.Redirect("/admin/categories")
}

func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	in := categoryInput(c)
	cat, err := h.Admin.UpdateCategory(c.UserContext(), id, in)
	if err != nil {
		return writeFailed(c, "admin.category.update", err, func(status int, data fiber.Map) error {
			data["Draft"] = in
			data["EditID"] = id
			return h.categoriesPage(c, status, data)
		})
	}
	applog.Audit(c, "admin.category.update", map[string]any{"category": cat.ID, "name": cat.Name})
	return c.Redirect("/admin/categories")
}

func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Admin.DeleteCategory(c.UserContext(), id); err != nil {
		return writeFailed(c, "admin.category.delete", err, func(status int, data fiber.Map) error {
			return h.categoriesPage(c, status, data)
		})
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"category": id})
	return c.Redirect("/admin/categories")
}
