package validate

import (
	"regexp"
	"strconv"
	"strings"

	"couponhub/internal/listquery"
)

var (
	reEmail  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ      = regexp.MustCompile(`^[A-Za-z0-9 _'&.,!%$\-]{1,50}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reLetter = regexp.MustCompile(`^(#|[A-Z])$`)
	reCat    = regexp.MustCompile(`^[A-Za-z0-9 &'\-]{1,40}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: rejects blanks, enforces allowed characters and max length.
// The term is kept as typed, surrounding spaces included.
// Case is preserved; prefix search is case-sensitive.
func Q(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier (store/coupon/category ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 20 {
		return "", false
	}
	return s, true
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// Page parses a 1-based page number; anything unparsable or below 1 is page 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 10000 {
		return 10000
	}
	return n
}

// Letter accepts "All", "#" or a single upper-case ASCII letter. Empty means "All".
func Letter(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "ALL" {
		return listquery.LetterAll, true
	}
	return s, reLetter.MatchString(s)
}

// Category accepts a display category name. Empty means no filter.
func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reCat.MatchString(s)
}

// Sort accepts one of the list orderings. Empty means relevance.
func Sort(s string) (string, bool) {
	return oneOf(s, listquery.SortRelevance,
		listquery.SortRelevance, listquery.SortName, listquery.SortDiscount, listquery.SortNewest)
}

// Tab accepts all/store/coupon, and the plural forms the UI links use.
func Tab(s string) (string, bool) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	return oneOf(s, listquery.TabAll, listquery.TabAll, "store", "coupon")
}

func DiscountType(s string) (string, bool) {
	return oneOf(s, "",
		listquery.DiscountPercentage, listquery.DiscountAmount, listquery.DiscountFree)
}

func Expiry(s string) (string, bool) {
	return oneOf(s, listquery.ExpiryAny, listquery.ExpiryAny, listquery.ExpiryWeek, listquery.ExpiryMonth)
}

// Percent parses an optional 0..100 bound. Empty yields nil.
func Percent(s string) (*int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 100 {
		return nil, false
	}
	return &n, true
}

func oneOf(s, empty string, allowed ...string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return empty, true
	}
	for _, a := range allowed {
		if s == a {
			return s, true
		}
	}
	return "", false
}
