package command

import (
	"math/rand"
	"strings"
	"unicode/utf8"
)

const (
	combiningMarkBase   = 0x300
	combiningMarkCount  = 0x6F
	defaultMarksPerRune = 10
)

// zalgify inserts random unicode combining marks after every rune of the
// input. With no maximum the per-rune count is fixed; with a maximum it is
// derived from the remaining budget, clamped to zero when the input is
// empty or already longer than the maximum.
func zalgify(input string, maxChars *int) string {
	perRune := defaultMarksPerRune
	if maxChars != nil {
		runes := utf8.RuneCountInString(input)
		if runes == 0 || *maxChars < runes {
			perRune = 0
		} else {
			perRune = (*maxChars - runes) / runes
			if perRune > defaultMarksPerRune {
				perRune = defaultMarksPerRune
			}
		}
	}

	var b strings.Builder
	b.Grow(len(input) * (perRune + 1))

	for _, r := range input {
		b.WriteRune(r)
		for i := 0; i < perRune; i++ {
			mark := rune(combiningMarkBase + rand.Intn(combiningMarkCount))
			if utf8.ValidRune(mark) {
				b.WriteRune(mark)
			}
		}
	}

	return b.String()
}
