package command

import (
	"strings"
	"unicode/utf8"
)

const (
	fullwidthOffset  = 0xFEE0
	ideographicSpace = '\u3000'
)

// wavify maps printable ASCII to its fullwidth equivalent and ASCII space
// to the ideographic space. Anything else passes through unchanged, as
// does any computed code point that is not a valid rune.
func wavify(input string) string {
	var b strings.Builder
	b.Grow(len(input) * 3)

	for _, r := range input {
		switch {
		case r == ' ':
			b.WriteRune(ideographicSpace)
		case r >= 0x21 && r <= 0x7E:
			if fw := r + fullwidthOffset; utf8.ValidRune(fw) {
				b.WriteRune(fw)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
