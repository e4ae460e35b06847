package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reUsername = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,29}$`)
	reQ        = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
)

// ID validates a simple resource identifier (product ids, user ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Username validates a login name: lowercase, 3-30 chars.
func Username(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reUsername.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 40 {
		return "", false
	}
	return s, true
}

// Q validates a catalog search query: trims, enforces allowed characters.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// Qty parses a purchase/restock quantity. Returns 0 when the value is not a
// positive integer; quantity errors are the caller's to classify.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Price parses a non-negative decimal price.
func Price(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Stock parses a non-negative integer stock level.
func Stock(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Password enforces a length window plus character-class mix.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}
