package command

import (
	"regexp"
	"strings"
	"time"

	"text-jester/internal/storage"
)

// Karma shorthands match against the raw, unstripped message text.
var (
	simpleInc = regexp.MustCompile(`^(\w+)\+\+$`)
	simpleDec = regexp.MustCompile(`^(\w+)\-\-$`)
)

// Interpreter turns raw message text into a Command. It holds read-only
// bot configuration and a shared handle to the karma store; it never owns
// the store.
type Interpreter struct {
	Prefix    string
	StartTime time.Time
	Store     *storage.Storage
}

// Interpret parses message text into a command, or nil if the message is
// not one. Non-DM messages must carry the prefix; in DMs the prefix is
// optional. Matching is deterministic prefix matching in a fixed priority
// order, so repeated calls always produce the same result.
func (in *Interpreter) Interpret(content string, isDM bool) Command {
	tail, found := strings.CutPrefix(content, in.Prefix)
	if !found {
		if isDM {
			tail = content
		} else {
			// Only the karma shorthands work without the prefix.
			if m := simpleInc.FindStringSubmatch(content); m != nil {
				return KarmaIncrement{Subject: m[1], Store: in.Store}
			}
			if m := simpleDec.FindStringSubmatch(content); m != nil {
				return KarmaDecrement{Subject: m[1], Store: in.Store}
			}
			return nil
		}
	}

	switch {
	case strings.HasPrefix(tail, "clap"):
		return Clap{Input: payload(tail, "clap")}
	case strings.HasPrefix(tail, "info"):
		return Info{StartTime: in.StartTime}
	case strings.HasPrefix(tail, "ping"):
		return Ping{}
	case strings.HasPrefix(tail, "react"):
		return React{Input: payload(tail, "react")}
	case strings.HasPrefix(tail, "sketchify"):
		return Sketchify{RawURL: payload(tail, "sketchify")}
	case strings.HasPrefix(tail, "spongebob"):
		return Spongebob{Input: payload(tail, "spongebob")}
	case strings.HasPrefix(tail, "wavy"):
		return Wavy{Input: payload(tail, "wavy")}
	case strings.HasPrefix(tail, "zalgo"):
		return Zalgo{Input: payload(tail, "zalgo")}
	}

	// Commands that are not valid when run in a DM.
	if !isDM && strings.HasPrefix(tail, "karma") {
		subject := payload(tail, "karma")
		if subject == "" {
			return KarmaTop{Store: in.Store}
		}
		return Karma{Subject: subject, Store: in.Store}
	}

	// The command wasn't recognised.
	return nil
}

// payload is the text after a keyword, trimmed of surrounding whitespace.
// There is no required separator: "reactHELLO" yields "HELLO".
func payload(tail, keyword string) string {
	return strings.TrimSpace(strings.TrimPrefix(tail, keyword))
}
