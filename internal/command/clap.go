package command

import "strings"

const clapToken = "\U0001F44F"

// clapify inserts the clap emoji between every pair of adjacent words and
// appends one trailing clap. Empty input stays empty.
func clapify(input string) string {
	if input == "" {
		return ""
	}

	words := strings.Split(input, " ")
	return strings.Join(words, " "+clapToken+" ") + " " + clapToken
}
