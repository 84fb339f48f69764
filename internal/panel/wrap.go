package panel

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// wrapValue splits value into lines no wider than maxWidth pixels when
// drawn with face. Wrapping is word-based; a word wider than a full line is
// broken by character count. An empty value yields a single placeholder
// line so the row keeps its height.
func wrapValue(face font.Face, value string, maxWidth int) []string {
	limit := fixed.I(maxWidth)
	var lines []string
	current := ""
	for _, word := range strings.Fields(value) {
		test := word
		if current != "" {
			test = current + " " + word
		}
		if font.MeasureString(face, test) <= limit {
			current = test
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		if font.MeasureString(face, word) > limit {
			lines = append(lines, breakWord(face, word, limit)...)
			continue
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = []string{valueMissing}
	}
	return lines
}

// breakWord chops an overlong word into runs sized by the face's average
// character width.
func breakWord(face font.Face, word string, limit fixed.Int26_6) []string {
	avg := font.MeasureString(face, "abc") / 3
	if avg <= 0 {
		avg = fixed.I(fontSize * 3 / 5)
	}
	perLine := int(limit / avg)
	if perLine < 1 {
		perLine = 1
	}
	runes := []rune(word)
	pieces := make([]string, 0, len(runes)/perLine+1)
	for len(runes) > 0 {
		n := perLine
		if n > len(runes) {
			n = len(runes)
		}
		pieces = append(pieces, string(runes[:n]))
		runes = runes[n:]
	}
	return pieces
}
