package listquery

import "couponhub/internal/domain"

// TabCounts feeds the "All / Stores / Coupons" badges.
type TabCounts struct {
	All    int `json:"all"`
	Store  int `json:"store"`
	Coupon int `json:"coupon"`
}

// Count tallies records per type.
func Count[T Record](records []T) TabCounts {
	tc := TabCounts{All: len(records)}
	for _, r := range records {
		switch r.RecordType() {
		case domain.KindStore:
			tc.Store++
		case domain.KindCoupon:
			tc.Coupon++
		}
	}
	return tc
}

// Result is everything a list view renders for one request.
type Result[T any] struct {
	Visible      []T       `json:"visible"`
	Total        int       `json:"total"`
	Page         int       `json:"page"`
	TotalPages   int       `json:"totalPages"`
	DisplayStart int       `json:"displayStart"`
	DisplayEnd   int       `json:"displayEnd"`
	TabCounts    TabCounts `json:"tabCounts"`
}

// Run filters, sorts and paginates records. Tab counts are taken after the free-text
// match and before every other filter, so switching tabs never changes the badges.
func Run[T Record](records []T, c Criteria) Result[T] {
	matched := filterTerm(records, c.Term)
	counts := Count(matched)
	sorted := Sort(filterRest(matched, c), c.Sort)
	p := Paginate(sorted, c.Page, c.PageSize)
	return Result[T]{
		Visible:      p.Items,
		Total:        p.Total,
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		DisplayStart: p.Start,
		DisplayEnd:   p.End,
		TabCounts:    counts,
	}
}

// Pager rebuilds the Page view of a result for templates.
func (r Result[T]) Pager() Page[T] {
	return Page[T]{
		Items:      r.Visible,
		Page:       r.Page,
		TotalPages: r.TotalPages,
		Start:      r.DisplayStart,
		End:        r.DisplayEnd,
		Total:      r.Total,
	}
}
