package command

import (
	"context"
	"fmt"
)

// Executor dispatches commands to their transforms. It carries the
// collaborators that individual transforms need, such as the sketchify
// HTTP client.
type Executor struct {
	sketchifier *Sketchifier
}

func NewExecutor(sketchifyURL string) *Executor {
	return &Executor{sketchifier: NewSketchifier(sketchifyURL)}
}

// Execute runs a command exactly once and returns its response. Failures
// are always *CommandError values. There are no internal retries.
func (ex *Executor) Execute(ctx context.Context, cmd Command) (Response, error) {
	switch c := cmd.(type) {
	case Clap:
		return ClapResponse{Output: clapify(c.Input)}, nil
	case Spongebob:
		return SpongebobResponse{Output: spongebobify(c.Input)}, nil
	case Wavy:
		return WavyResponse{Output: wavify(c.Input)}, nil
	case Zalgo:
		return ZalgoResponse{Output: zalgify(c.Input, c.MaxChars)}, nil
	case Ping:
		return PongResponse{}, nil
	case Info:
		return infoResponse(c.StartTime), nil
	case React:
		return reactify(c.Input)
	case Sketchify:
		u, err := ex.sketchifier.Sketchify(ctx, c.RawURL)
		if err != nil {
			return nil, err
		}
		return SketchifyResponse{URL: u}, nil
	case Karma:
		count, err := c.Store.Karma(c.Subject)
		if err != nil {
			return nil, &CommandError{Kind: ErrInternal, Err: err}
		}
		return KarmaResponse{Subject: c.Subject, Count: count}, nil
	case KarmaTop:
		top, err := c.Store.TopKarma(karmaTopLimit)
		if err != nil {
			return nil, &CommandError{Kind: ErrInternal, Err: err}
		}
		return KarmaTopResponse{Top: top}, nil
	case KarmaIncrement:
		total, err := c.Store.IncrementKarma(c.Subject)
		if err != nil {
			return nil, &CommandError{Kind: ErrInternal, Err: err}
		}
		return KarmaIncrementResponse{Subject: c.Subject, Total: total}, nil
	case KarmaDecrement:
		total, err := c.Store.DecrementKarma(c.Subject)
		if err != nil {
			return nil, &CommandError{Kind: ErrInternal, Err: err}
		}
		return KarmaDecrementResponse{Subject: c.Subject, Total: total}, nil
	default:
		// A Command variant nobody taught the dispatcher about.
		return nil, &CommandError{Kind: ErrInternal, Err: fmt.Errorf("unhandled command type %T", cmd)}
	}
}

// karmaTopLimit bounds the leaderboard size.
const karmaTopLimit = 10
