package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FallbackBase is used when sanitization strips a name to nothing.
const FallbackBase = "video"

// Sanitize converts a source file stem into a filesystem-safe artifact base.
// Accented letters are folded to ASCII via NFKD, anything outside
// [A-Za-z0-9._-] becomes an underscore, underscore runs collapse to one, and
// leading or trailing underscores and dots are trimmed.
func Sanitize(stem string) string {
	decomposed := norm.NFKD.String(stem)

	var b strings.Builder
	b.Grow(len(decomposed))
	prevUnderscore := false
	for _, r := range decomposed {
		// NFKD splits accented letters into base + combining mark.
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if !safeRune(r) {
			r = '_'
		}
		if r == '_' && prevUnderscore {
			continue
		}
		b.WriteRune(r)
		prevUnderscore = r == '_'
	}

	out := strings.Trim(b.String(), "_.")
	if out == "" {
		return FallbackBase
	}
	return out
}

func safeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}
