package command

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"text-jester/pkg/ratelimit"
)

const sketchifyResponseLimit = 4 * 1024

// Sketchifier converts URLs through the third-party sketchify API. Calls
// are guarded by an adaptive rate limiter that backs off when the API
// reports overload.
type Sketchifier struct {
	endpoint string
	client   *http.Client
	limiter  *ratelimit.AdaptiveLimiter
}

func NewSketchifier(endpoint string) *Sketchifier {
	return &Sketchifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		limiter:  ratelimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
	}
}

// Sketchify posts the URL to the API and parses the returned body as the
// converted URL. The request is made exactly once; failures map to
// InvalidURL for parse problems and Request for transport problems.
func (s *Sketchifier) Sketchify(ctx context.Context, rawURL string) (*url.URL, error) {
	longURL, err := parseLoose(rawURL)
	if err != nil {
		return nil, &CommandError{Kind: ErrInvalidURL, Err: err}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &CommandError{Kind: ErrRequest, Err: err}
	}

	form := url.Values{"long_url": {longURL.String()}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &CommandError{Kind: ErrRequest, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.limiter.RateLimited()
		return nil, &CommandError{Kind: ErrRequest, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			s.limiter.RateLimited()
		}
		return nil, &CommandError{Kind: ErrRequest, Err: fmt.Errorf("sketchify API returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, sketchifyResponseLimit))
	if err != nil {
		return nil, &CommandError{Kind: ErrRequest, Err: err}
	}
	s.limiter.Success()

	sketchy, err := parseLoose(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, &CommandError{Kind: ErrInvalidURL, Err: err}
	}

	return sketchy, nil
}

// parseLoose parses a URL, retrying with an http:// prefix when the input
// has no scheme.
func parseLoose(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty URL")
	}

	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" && u.Host != "" {
		return u, nil
	}

	u, err = url.Parse("http://" + raw)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", raw)
	}

	return u, nil
}
