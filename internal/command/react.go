package command

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	upperIndicatorOffset = 0x1F1A5
	lowerIndicatorOffset = 0x1F185

	variationSelector16      = '\uFE0F'
	combiningEnclosingKeycap = '\u20E3'
)

// reactify converts an alphanumeric string into a sequence of unicode
// reaction tokens. Spaces are removed before validation. Inputs containing
// non-alphanumeric characters are rejected first; then inputs with any
// case-folded repeated character, since Discord cannot apply the same
// reaction twice.
func reactify(input string) (Response, error) {
	stripped := strings.ReplaceAll(input, " ", "")

	for _, r := range stripped {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return nil, &CommandError{Kind: ErrNonAlphanumeric, Original: stripped}
		}
	}

	seen := make(map[rune]bool, utf8.RuneCountInString(stripped))
	for _, r := range stripped {
		folded := unicode.ToUpper(r)
		if seen[folded] {
			return nil, &CommandError{Kind: ErrRepetition, Original: stripped}
		}
		seen[folded] = true
	}

	reactions := make([]string, 0, utf8.RuneCountInString(stripped))
	for _, r := range stripped {
		reactions = append(reactions, reactionToken(r))
	}

	return ReactResponse{Reactions: reactions}, nil
}

// reactionToken maps one character to its emoji token: regional-indicator
// style letters, keycap sequences for digits. Characters with no mapping,
// or whose computed code point is not a valid rune, pass through as-is.
func reactionToken(r rune) string {
	switch {
	case r >= 'A' && r <= 'Z':
		if ind := r + upperIndicatorOffset; utf8.ValidRune(ind) {
			return string(ind)
		}
		return string(r)
	case r >= 'a' && r <= 'z':
		if ind := r + lowerIndicatorOffset; utf8.ValidRune(ind) {
			return string(ind)
		}
		return string(r)
	case r >= '0' && r <= '9':
		return string([]rune{r, variationSelector16, combiningEnclosingKeycap})
	default:
		return string(r)
	}
}
