// Package httpx provides the tuned HTTP client shared by the stockings CLI
// and the quote server.
package httpx

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request ID stamped by Client.Do.
const RequestIDHeader = "X-Request-Id"

// Client is a small wrapper around http.Client with sane defaults. It
// satisfies the HTTPClient interface of the yahoo package, so it can be
// handed to yahoo.New via yahoo.WithHTTPClient. Every outgoing request gets
// a generated request ID so upstream trouble can be matched to our own logs.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
	Log       *zap.Logger
}

// New builds a Client with pooled connections and the given overall request
// timeout. Logging is off until Log is replaced.
func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          200,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout, Transport: transport},
		UserAgent: "stockings/1.0",
		Log:       zap.NewNop(),
	}
}

// Do stamps default headers and a request ID onto req, performs it, and
// debug-logs the outcome. Explicitly set headers win over defaults. The
// request's own context governs cancellation.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		req.Header.Set(RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Debug("request failed",
			zap.String("request_id", id),
			zap.String("method", req.Method),
			zap.String("url", req.URL.Redacted()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	c.Log.Debug("request done",
		zap.String("request_id", id),
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}
