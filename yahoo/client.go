// Package yahoo retrieves quotes, historical prices, currency exchange
// rates, company and industry metadata, and ticker suggestions from the
// Yahoo Finance web services, decoding the loosely-typed responses with the
// quote package.
//
// Every call is a single attempt: no retries, no caching. A Client is safe
// for concurrent use; identical GETs issued while one is already in flight
// are coalesced onto the same response, and WithMinInterval spaces requests
// out to stay polite with the upstream.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrNotFound reports that the service does not know the requested symbol,
// pair, or industry.
var ErrNotFound = errors.New("yahoo: not found")

// Default service endpoints.
const (
	defaultYQLBaseURL     = "https://query.yahooapis.com/v1/public/yql"
	defaultCSVBaseURL     = "http://download.finance.yahoo.com/d/quotes.csv"
	defaultChartBaseURL   = "http://ichart.finance.yahoo.com/table.csv"
	defaultSuggestBaseURL = "http://d.yimg.com/autoc.finance.yahoo.com/autoc"
)

// settings holds the per-call tunables. Each operation works on a copy, so
// per-call options never disturb the Client they came from.
type settings struct {
	yqlBaseURL     string
	csvBaseURL     string
	chartBaseURL   string
	suggestBaseURL string
	httpClient     HTTPClient
	header         http.Header
	minInterval    time.Duration
	maxConcurrency int
}

// Client is a client for the Yahoo Finance web services.
type Client struct {
	settings

	// gate state for WithMinInterval.
	mu   sync.Mutex
	next time.Time

	group singleflight.Group
}

// ClientOption is a configuration option for the Client. Options may be
// given to New or to individual calls, where they apply to that call only.
type ClientOption func(*settings)

// WithYQLBaseURL overrides the YQL query endpoint.
func WithYQLBaseURL(baseURL string) ClientOption {
	return func(s *settings) {
		s.yqlBaseURL = baseURL
	}
}

// WithCSVBaseURL overrides the legacy CSV quote endpoint.
func WithCSVBaseURL(baseURL string) ClientOption {
	return func(s *settings) {
		s.csvBaseURL = baseURL
	}
}

// WithChartBaseURL overrides the historical price endpoint.
func WithChartBaseURL(baseURL string) ClientOption {
	return func(s *settings) {
		s.chartBaseURL = baseURL
	}
}

// WithSuggestBaseURL overrides the symbol suggestion endpoint.
func WithSuggestBaseURL(baseURL string) ClientOption {
	return func(s *settings) {
		s.suggestBaseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(s *settings) {
		s.httpClient = httpClient
	}
}

// WithHeader adds headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(s *settings) {
		for key, values := range header {
			for _, value := range values {
				s.header.Add(key, value)
			}
		}
	}
}

// WithMinInterval spaces requests at least d apart. Zero disables the gate.
func WithMinInterval(d time.Duration) ClientOption {
	return func(s *settings) {
		s.minInterval = d
	}
}

// WithMaxConcurrency bounds the fan-out of multi-symbol operations such as
// Histories.
func WithMaxConcurrency(n int) ClientOption {
	return func(s *settings) {
		s.maxConcurrency = n
	}
}

// New creates a new Yahoo Finance client.
func New(options ...ClientOption) (*Client, error) {
	s := settings{
		yqlBaseURL:     defaultYQLBaseURL,
		csvBaseURL:     defaultCSVBaseURL,
		chartBaseURL:   defaultChartBaseURL,
		suggestBaseURL: defaultSuggestBaseURL,
		httpClient:     http.DefaultClient,
		header:         http.Header{},
		maxConcurrency: 4,
	}
	for _, option := range options {
		option(&s)
	}
	if s.minInterval < 0 {
		return nil, fmt.Errorf("negative min interval: %v", s.minInterval)
	}
	if s.maxConcurrency < 1 {
		return nil, fmt.Errorf("max concurrency must be positive: %d", s.maxConcurrency)
	}
	return &Client{settings: s}, nil
}

// call copies the client settings and applies per-call options.
func (c *Client) call(opts []ClientOption) settings {
	s := c.settings
	s.header = s.header.Clone()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// wait reserves the next polite request slot and blocks until it arrives or
// ctx is done. Concurrent callers are spaced minInterval apart rather than
// released in a burst.
func (c *Client) wait(ctx context.Context, s settings) error {
	if s.minInterval <= 0 {
		return nil
	}
	c.mu.Lock()
	now := time.Now()
	slot := c.next
	if slot.Before(now) {
		slot = now
	}
	c.next = slot.Add(s.minInterval)
	c.mu.Unlock()

	d := time.Until(slot)
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// get performs one GET and returns the response body. Identical URLs
// already in flight are coalesced; the shared request runs under the first
// caller's context. 404 maps to ErrNotFound so endpoint code can tell
// "unknown symbol" from transport trouble.
func (c *Client) get(ctx context.Context, s settings, rawurl string) ([]byte, error) {
	v, err, _ := c.group.Do(rawurl, func() (any, error) {
		if err := c.wait(ctx, s); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		if len(s.header) > 0 {
			req.Header = s.header.Clone()
		}

		res, err := s.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("performing request: %w", err)
		}
		defer res.Body.Close()

		switch res.StatusCode {
		case http.StatusOK:
			break

		case http.StatusNotFound:
			return nil, ErrNotFound

		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("rate limited")

		default:
			return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
		}

		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
