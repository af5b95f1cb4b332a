package command

import (
	"strings"
	"unicode"
)

// spongebobify alternates character case across the alphanumerics of the
// input. Other characters pass through verbatim without advancing the
// alternation, so case keeps alternating across word boundaries.
func spongebobify(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	upper := false
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if upper {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
			upper = !upper
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}
