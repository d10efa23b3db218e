package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

// maxPayloadBytes bounds the registry response body.
const maxPayloadBytes = 32 << 20

// Ensure Client implements the interface.
var _ driven.RegistryClient = (*Client)(nil)

// Client fetches the prompt registry over HTTP.
type Client struct {
	url       string
	userAgent string
	http      *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient creates a registry client for url. version is reported in the
// User-Agent header.
func NewClient(url, version string, opts ...ClientOption) *Client {
	if url == "" {
		url = domain.DefaultRegistryURL
	}
	c := &Client{
		url:       url,
		userAgent: "jfp/" + version,
		http:      &http.Client{Timeout: domain.DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the registry endpoint.
func (c *Client) URL() string {
	return c.url
}

// payload is the registry response body.
type payload struct {
	Version string          `json:"version"`
	Prompts []domain.Prompt `json:"prompts"`
}

// Fetch performs one GET against the registry. A non-empty etag is sent as
// If-None-Match, and a 304 reply yields NotModified.
func (c *Client) Fetch(ctx context.Context, etag string) (*driven.RemoteFetch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, c.fetchError(0, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	logger.Debug("GET %s (etag %q)", c.url, etag)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fetchError(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &driven.RemoteFetch{NotModified: true, ETag: etag}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, c.fetchError(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var body payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&body); err != nil {
		return nil, c.fetchError(resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	if body.Prompts == nil {
		return nil, c.fetchError(resp.StatusCode, errors.New("response has no prompts array"))
	}
	for i := range body.Prompts {
		if err := body.Prompts[i].Validate(); err != nil {
			return nil, c.fetchError(resp.StatusCode, fmt.Errorf("prompt %d: %w", i, err))
		}
	}

	return &driven.RemoteFetch{
		Prompts: body.Prompts,
		ETag:    resp.Header.Get("ETag"),
		Version: body.Version,
	}, nil
}

func (c *Client) fetchError(status int, err error) error {
	return &domain.RegistryFetchError{URL: c.url, StatusCode: status, Err: err}
}
