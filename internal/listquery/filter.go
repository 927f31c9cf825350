package listquery

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"couponhub/internal/domain"
)

// prefixSentinel closes the upper end of a prefix range, the same way a sorted-range
// query on the document store did. Matching stays case-sensitive.
const prefixSentinel = "\uf8ff"

var rePercent = regexp.MustCompile(`(\d+)%`)

// Filter keeps the records that satisfy every active constraint in c.
func Filter[T Record](records []T, c Criteria) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matchesTerm(r, c.Term) && matchesRest(r, c) {
			out = append(out, r)
		}
	}
	return out
}

func filterTerm[T Record](records []T, term string) []T {
	if term == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matchesTerm(r, term) {
			out = append(out, r)
		}
	}
	return out
}

func filterRest[T Record](records []T, c Criteria) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matchesRest(r, c) {
			out = append(out, r)
		}
	}
	return out
}

func matchesRest(r Record, c Criteria) bool {
	return matchesTab(r, c.Tab) &&
		matchesCategory(r, c.Category) &&
		MatchesLetter(r.PrimaryText(), c.Letter) &&
		matchesDiscountType(r, c.DiscountType) &&
		matchesDiscountRange(r, c.MinDiscount, c.MaxDiscount) &&
		matchesExpiry(r, c.Expiry, c.now())
}

func matchesTab(r Record, tab string) bool {
	return tab == "" || tab == TabAll || r.RecordType() == tab
}

func matchesCategory(r Record, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	own := r.CategoryText()
	if own == "" {
		return false
	}
	return strings.Contains(strings.ToLower(own), strings.ToLower(category))
}

// matchesTerm is a plain byte-order range check: text in [term, term+sentinel).
func matchesTerm(r Record, term string) bool {
	if term == "" {
		return true
	}
	text := r.PrimaryText()
	return text >= term && text < term+prefixSentinel
}

// LetterOf returns the directory bucket of a name: "A".."Z", or "#" for names starting
// with a digit or any character that is not an ASCII letter.
func LetterOf(name string) string {
	first, _ := utf8.DecodeRuneInString(name)
	switch {
	case first >= 'a' && first <= 'z':
		return string(first - 'a' + 'A')
	case first >= 'A' && first <= 'Z':
		return string(first)
	}
	return LetterOther
}

// MatchesLetter reports whether name belongs to the directory letter. "All" and the
// empty string match every name.
func MatchesLetter(name, letter string) bool {
	switch {
	case letter == "" || letter == LetterAll:
		return true
	case letter == LetterOther || isASCIIUpper(letter):
		// Bucketing keeps every name in exactly one of A-Z and "#", including
		// runes like 'ı' whose upper case is an ASCII letter.
		return LetterOf(name) == letter
	}
	first, _ := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError {
		return false
	}
	return strings.ToUpper(string(first)) == letter
}

func isASCIIUpper(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}

// Letters lists the directory buckets in display order.
func Letters() []string {
	out := make([]string, 0, 27)
	for r := 'A'; r <= 'Z'; r++ {
		out = append(out, string(r))
	}
	return append(out, LetterOther)
}

func matchesDiscountType(r Record, kind string) bool {
	if kind == "" || r.RecordType() != domain.KindCoupon {
		return true
	}
	title := r.PrimaryText()
	switch kind {
	case DiscountPercentage:
		return strings.Contains(title, "%")
	case DiscountAmount:
		return strings.Contains(title, "$")
	case DiscountFree:
		return strings.Contains(strings.ToLower(title), "free")
	}
	return true
}

func matchesDiscountRange(r Record, lo, hi *int) bool {
	if (lo == nil && hi == nil) || r.RecordType() != domain.KindCoupon {
		return true
	}
	pct, ok := Percent(r.PrimaryText())
	if !ok {
		return true
	}
	if lo != nil && pct < *lo {
		return false
	}
	if hi != nil && pct > *hi {
		return false
	}
	return true
}

func matchesExpiry(r Record, bucket string, now time.Time) bool {
	if r.RecordType() != domain.KindCoupon {
		return true
	}
	var deadline time.Time
	switch bucket {
	case ExpiryWeek:
		deadline = now.AddDate(0, 0, 7)
	case ExpiryMonth:
		deadline = now.AddDate(0, 1, 0)
	default:
		return true
	}
	exp, ok := ParseExpiry(r.ExpiryText())
	if !ok {
		return true
	}
	return !exp.After(deadline)
}

// Percent extracts the first run of digits followed by "%" in s. A run too large
// for an int saturates at math.MaxInt.
func Percent(s string) (int, bool) {
	m := rePercent.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseExpiry reads a calendar date ("2006-01-02") or an RFC 3339 timestamp.
func ParseExpiry(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
