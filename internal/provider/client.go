package provider

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

const (
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

	// DefaultRequestsPerSecond throttles each source when no limit is configured.
	DefaultRequestsPerSecond = 5
)

// source is the HTTP plumbing shared by every provider.
type source struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Option configures a provider.
type Option func(*source)

// WithBaseURL overrides the source endpoint, for tests and proxies.
func WithBaseURL(url string) Option {
	return func(s *source) {
		if url != "" {
			s.baseURL = url
		}
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(s *source) {
		if requestsPerSecond > 0 {
			burst := max(1, int(requestsPerSecond))
			s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
		}
	}
}

func newSource(httpClient *http.Client, baseURL string, opts []Option) source {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	s := source{
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultRequestsPerSecond),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// get waits for the limiter, issues the request and checks the status code.
// The caller closes the body.
func (s *source) get(ctx context.Context, url string) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp, nil
}
