// Package command holds the closed set of bot commands, the interpreter
// that recognizes them in message text, and the dispatcher that executes
// them into responses.
package command

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"text-jester/internal/storage"
)

// Command is one recognized user intent. The set is closed: the marker
// method keeps foreign types out, and the dispatcher's type switch fails
// loudly on anything it does not know.
type Command interface {
	isCommand()
}

// Clap inserts clapping emojis between every word of the input text.
type Clap struct {
	Input string
}

// Spongebob converts text to alternating-case text.
type Spongebob struct {
	Input string
}

// Wavy converts text to vaporwave (fullwidth) text.
type Wavy struct {
	Input string
}

// Zalgo converts text to Zalgo text. MaxChars, if set, bounds the total
// output length.
type Zalgo struct {
	Input    string
	MaxChars *int
}

// Ping checks that the bot is alive.
type Ping struct{}

// Info requests information about the running bot instance. StartTime is
// captured once at boot and threaded through, never read from global state.
type Info struct {
	StartTime time.Time
}

// React converts a string into emoji reactions for the previous message.
type React struct {
	Input string
}

// Sketchify converts a URL into a sketchy-looking equivalent.
type Sketchify struct {
	RawURL string
}

// Karma looks up a subject's karma count.
type Karma struct {
	Subject string
	Store   *storage.Storage
}

// KarmaTop lists the subjects with the most karma.
type KarmaTop struct {
	Store *storage.Storage
}

// KarmaIncrement adds one karma to a subject.
type KarmaIncrement struct {
	Subject string
	Store   *storage.Storage
}

// KarmaDecrement removes one karma from a subject.
type KarmaDecrement struct {
	Subject string
	Store   *storage.Storage
}

func (Clap) isCommand()           {}
func (Spongebob) isCommand()      {}
func (Wavy) isCommand()           {}
func (Zalgo) isCommand()          {}
func (Ping) isCommand()           {}
func (Info) isCommand()           {}
func (React) isCommand()          {}
func (Sketchify) isCommand()      {}
func (Karma) isCommand()          {}
func (KarmaTop) isCommand()       {}
func (KarmaIncrement) isCommand() {}
func (KarmaDecrement) isCommand() {}

// Response is the platform-agnostic result of a successful command. It
// never carries channel or message handles; the responder supplies those
// from the triggering message at render time.
type Response interface {
	isResponse()
}

type ClapResponse struct {
	Output string
}

type SpongebobResponse struct {
	Output string
}

type WavyResponse struct {
	Output string
}

type ZalgoResponse struct {
	Output string
}

type PongResponse struct{}

// UptimeParts is a duration broken into display units.
type UptimeParts struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

func (u UptimeParts) String() string {
	return fmt.Sprintf("%dd %dh %dm %ds", u.Days, u.Hours, u.Minutes, u.Seconds)
}

type InfoResponse struct {
	Version  string
	Uptime   UptimeParts
	Homepage string
}

type ReactResponse struct {
	// Reactions are unicode emoji tokens in input order.
	Reactions []string
}

type SketchifyResponse struct {
	URL *url.URL
}

type KarmaResponse struct {
	Subject string
	Count   int
}

type KarmaTopResponse struct {
	Top []storage.KarmaEntry
}

type KarmaIncrementResponse struct {
	Subject string
	Total   int
}

type KarmaDecrementResponse struct {
	Subject string
	Total   int
}

func (ClapResponse) isResponse()           {}
func (SpongebobResponse) isResponse()      {}
func (WavyResponse) isResponse()           {}
func (ZalgoResponse) isResponse()          {}
func (PongResponse) isResponse()           {}
func (InfoResponse) isResponse()           {}
func (ReactResponse) isResponse()          {}
func (SketchifyResponse) isResponse()      {}
func (KarmaResponse) isResponse()          {}
func (KarmaTopResponse) isResponse()       {}
func (KarmaIncrementResponse) isResponse() {}
func (KarmaDecrementResponse) isResponse() {}

// ErrorKind classifies the domain failures a user can be told about.
type ErrorKind int

const (
	ErrNonAlphanumeric ErrorKind = iota
	ErrRepetition
	ErrInvalidURL
	ErrRequest
	ErrInternal
)

// CommandError is a command failure meaningful to the end user. Original
// holds the offending input for the validation kinds; Err holds the
// underlying cause and stays in the logs.
type CommandError struct {
	Kind     ErrorKind
	Original string
	Err      error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case ErrNonAlphanumeric:
		return fmt.Sprintf("string %q contains non-alphanumeric characters", e.Original)
	case ErrRepetition:
		return fmt.Sprintf("string %q contains repeated characters", e.Original)
	case ErrInvalidURL:
		return fmt.Sprintf("invalid URL: %v", e.Err)
	case ErrRequest:
		return fmt.Sprintf("could not complete request: %v", e.Err)
	default:
		return fmt.Sprintf("internal error: %v", e.Err)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UserMessage renders the error as a single fixed sentence suitable for
// showing in the error-report embed. Raw detail never reaches the user.
func (e *CommandError) UserMessage() string {
	switch e.Kind {
	case ErrNonAlphanumeric:
		return fmt.Sprintf("String **%s** contains non-alphanumeric characters!", strings.ToUpper(e.Original))
	case ErrRepetition:
		return fmt.Sprintf("String **%s** contains repeated characters!", strings.ToUpper(e.Original))
	case ErrInvalidURL:
		return "Invalid URL!"
	case ErrRequest:
		return "Failed to complete request. Please try again."
	default:
		return "An internal error occurred. Please try again later."
	}
}
