package handlers

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"couponhub/internal/listquery"
	"couponhub/internal/validate"
)

// parseCriteria reads list state from the query string. When a parameter is present
// but malformed it returns its name as bad.
func parseCriteria(c *fiber.Ctx, pageSize int) (crit listquery.Criteria, bad string) {
	crit.PageSize = pageSize
	crit.Page = validate.Page(c.Query("page"))

	if raw := c.Query("q"); raw != "" {
		q, ok := validate.Q(raw)
		if !ok {
			return crit, "q"
		}
		crit.Term = q
	}

	var ok bool
	if crit.Category, ok = validate.Category(c.Query("category")); !ok {
		return crit, "category"
	}
	if crit.Letter, ok = validate.Letter(c.Query("letter")); !ok {
		return crit, "letter"
	}
	if crit.Tab, ok = validate.Tab(c.Query("tab")); !ok {
		return crit, "tab"
	}
	if crit.Sort, ok = validate.Sort(c.Query("sort")); !ok {
		return crit, "sort"
	}
	if crit.DiscountType, ok = validate.DiscountType(c.Query("type")); !ok {
		return crit, "type"
	}
	if crit.Expiry, ok = validate.Expiry(c.Query("expiry")); !ok {
		return crit, "expiry"
	}
	if crit.MinDiscount, ok = validate.Percent(c.Query("min")); !ok {
		return crit, "min"
	}
	if crit.MaxDiscount, ok = validate.Percent(c.Query("max")); !ok {
		return crit, "max"
	}
	return crit, ""
}

// Links builds the hrefs of filter, tab, sort and pager controls from the current
// criteria. Letter, category and tab links go back to page 1; sort links keep the page.
type Links struct {
	Path string
	C    listquery.Criteria
}

func (l Links) Letter(letter string) string { return l.url(l.C.WithLetter(letter)) }
func (l Links) Category(cat string) string  { return l.url(l.C.WithCategory(cat)) }
func (l Links) Tab(tab string) string       { return l.url(l.C.WithTab(tab)) }
func (l Links) Sort(key string) string      { return l.url(l.C.WithSort(key)) }
func (l Links) Page(n int) string           { return l.url(l.C.WithPage(n)) }

func (l Links) url(c listquery.Criteria) string {
	v := url.Values{}
	set := func(k, val, zero string) {
		if val != "" && val != zero {
			v.Set(k, val)
		}
	}
	set("q", c.Term, "")
	set("category", c.Category, "")
	set("letter", c.Letter, listquery.LetterAll)
	set("tab", c.Tab, listquery.TabAll)
	set("sort", c.Sort, listquery.SortRelevance)
	set("type", c.DiscountType, "")
	set("expiry", c.Expiry, listquery.ExpiryAny)
	if c.MinDiscount != nil {
		v.Set("min", strconv.Itoa(*c.MinDiscount))
	}
	if c.MaxDiscount != nil {
		v.Set("max", strconv.Itoa(*c.MaxDiscount))
	}
	if c.Page > 1 {
		v.Set("page", strconv.Itoa(c.Page))
	}
	if len(v) == 0 {
		return l.Path
	}
	return l.Path + "?" + v.Encode()
}
