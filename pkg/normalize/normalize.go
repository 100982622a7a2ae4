// Package normalize builds search keys out of scientific and vernacular names.
// A key is lowercase ASCII letters, digits and single spaces, so that a user
// typing "champinon" finds "Champiñón".
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize converts a name to its search key. The steps are: lowercase,
// canonical decomposition (NFD), removal of combining marks, replacement of
// everything outside [a-z0-9 ] with a space, whitespace collapse and trim.
//
// Normalize is deterministic and idempotent. Empty input gives "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	res, _, err := transform.String(t, s)
	if err != nil {
		// transformers above never fail on valid strings, invalid UTF-8
		// sequences are dropped by the mapping below
		res = s
	}

	var b strings.Builder
	b.Grow(len(res))
	space := true
	for _, r := range res {
		if isKeyRune(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Ptr normalizes a nullable name, a nil name gives "".
func Ptr(s *string) string {
	if s == nil {
		return ""
	}
	return Normalize(*s)
}

func isKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
