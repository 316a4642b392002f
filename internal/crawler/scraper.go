package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"samivl/pkg/utils"
)

// DefaultBodyLimitKb caps how much of a response body is read.
const DefaultBodyLimitKb = 64 * 1024

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Response is a fetched HTTP response body with its status.
type Response struct {
	Body       []byte
	StatusCode int
	Duration   time.Duration
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Scraper performs single GET requests. It never retries.
type Scraper struct {
	client      *http.Client
	bodyLimitKb int
}

// NewScraper creates a new scraper with the given per-request timeout.
func NewScraper(timeout time.Duration) *Scraper {
	return NewScraperWithClient(&http.Client{Timeout: timeout})
}

// NewScraperWithClient wraps an existing HTTP client.
func NewScraperWithClient(client *http.Client) *Scraper {
	return &Scraper{
		client:      client,
		bodyLimitKb: DefaultBodyLimitKb,
	}
}

// Fetch issues a GET and returns the body and status. Non-2xx statuses are
// not errors here; transport and read failures are.
func (s *Scraper) Fetch(ctx context.Context, url string) (*Response, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = utils.BuildHeaders(nil)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	limit := int64(s.bodyLimitKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Body:       body,
		StatusCode: resp.StatusCode,
		Duration:   time.Since(startTime),
	}, nil
}

// Close releases idle connections.
func (s *Scraper) Close() {
	s.client.CloseIdleConnections()
}
