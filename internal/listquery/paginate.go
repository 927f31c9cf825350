package listquery

// Page is one slice of a result list plus what a "showing X–Y of Z" caption needs.
// On an empty list Start is 1 and End is 0; views check Total before printing the range.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	Start      int
	End        int
	Total      int
}

// HasPrev and HasNext drive the pager links.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// Prev and Next are the neighbouring page numbers.
func (p Page[T]) Prev() int { return p.Page - 1 }
func (p Page[T]) Next() int { return p.Page + 1 }

// Pages lists 1..TotalPages for pager rendering.
func (p Page[T]) Pages() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Paginate cuts the 1-based page out of records. A page size below 1 is treated as 1
// and a page below 1 as the first page; a page past the end yields no items.
func Paginate[T any](records []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}
	n := len(records)
	totalPages := (n + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	var items []T
	if start < n {
		items = records[start:min(end, n)]
	} else {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		Start:      start + 1,
		End:        min(end, n),
		Total:      n,
	}
}
