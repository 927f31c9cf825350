// Package listquery turns an in-memory snapshot of stores, coupons or mixed search
// hits into the page a view renders: filtered, sorted, paginated, plus the tab counts.
// Every function here is pure; callers pass a fresh snapshot on each request.
package listquery

import "time"

const (
	TabAll      = "all"
	CategoryAll = "All"

	LetterAll   = "All"
	LetterOther = "#"

	SortRelevance = "relevance"
	SortName      = "name"
	SortDiscount  = "discount"
	SortNewest    = "newest"

	DiscountPercentage = "percentage"
	DiscountAmount     = "amount"
	DiscountFree       = "free"

	ExpiryWeek  = "week"
	ExpiryMonth = "month"
	ExpiryAny   = "any"
)

// Record is the read-only view the engine needs of a store, coupon or search hit.
type Record interface {
	RecordType() string
	PrimaryText() string
	CategoryText() string
	ExpiryText() string
	Created() time.Time
}

// Criteria is the user's filter, sort and pagination state. The zero value matches
// everything, keeps input order and shows the first page.
type Criteria struct {
	Term         string
	Category     string
	Tab          string
	DiscountType string
	MinDiscount  *int
	MaxDiscount  *int
	Expiry       string
	Sort         string
	Letter       string
	Page         int
	PageSize     int

	// Now anchors the expiry buckets. Zero means the wall clock.
	Now time.Time
}

// WithCategory selects a category and goes back to the first page.
func (c Criteria) WithCategory(category string) Criteria {
	c.Category = category
	c.Page = 1
	return c
}

// WithLetter selects a directory letter and goes back to the first page.
func (c Criteria) WithLetter(letter string) Criteria {
	c.Letter = letter
	c.Page = 1
	return c
}

// WithTab selects a result tab and goes back to the first page.
func (c Criteria) WithTab(tab string) Criteria {
	c.Tab = tab
	c.Page = 1
	return c
}

// WithSort changes the ordering only; the current page is kept.
func (c Criteria) WithSort(sort string) Criteria {
	c.Sort = sort
	return c
}

func (c Criteria) WithPage(page int) Criteria {
	c.Page = page
	return c
}

func (c Criteria) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}
