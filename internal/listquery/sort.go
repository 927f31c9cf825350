package listquery

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort returns a reordered copy of records; the input slice is left untouched.
// All orderings are stable, and unknown keys behave like relevance.
func Sort[T Record](records []T, key string) []T {
	out := slices.Clone(records)
	switch key {
	case SortName:
		// Collators keep per-call buffers, so each sort gets its own.
		col := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b T) int {
			return col.CompareString(a.PrimaryText(), b.PrimaryText())
		})
	case SortDiscount:
		slices.SortStableFunc(out, func(a, b T) int {
			return cmp.Compare(percentOrZero(b.PrimaryText()), percentOrZero(a.PrimaryText()))
		})
	case SortNewest:
		slices.SortStableFunc(out, func(a, b T) int {
			return b.Created().Compare(a.Created())
		})
	}
	return out
}

func percentOrZero(s string) int {
	n, _ := Percent(s)
	return n
}
