// Package httpclient builds the HTTP client shared by every job in a
// run. One instance serves all concurrent job bodies so connections are
// pooled and reused; net/http clients are safe for concurrent use.
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config carries the client knobs exposed through the configuration
// layer.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Client wraps http.Client so every outgoing request carries the
// configured User-Agent header.
type Client struct {
	http      *http.Client
	userAgent string
}

// New constructs the run-scoped client. An empty user agent is a
// configuration error: the header is part of the tool's contract.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return nil, fmt.Errorf("user agent must not be empty")
	}
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     30 * time.Second,
	}
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
	}, nil
}

// Get issues a GET for url with the run's User-Agent. The caller owns
// the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	return resp, nil
}

// CloseIdleConnections releases pooled connections at the end of a run.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}
