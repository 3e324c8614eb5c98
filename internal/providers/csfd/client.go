package csfd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marquee/internal/providers"
	"marquee/internal/title"
)

const (
	providerName     = "csfd"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) marquee"
	maxPageBytes     = 4 << 20
)

// Client fetches and parses ČSFD pages.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ providers.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithUserAgent overrides the User-Agent header. ČSFD rejects requests
// without one.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a ČSFD client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("csfd base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Source identifies the provider.
func (c *Client) Source() title.Source {
	return title.SourceCSFD
}

// SearchByName returns the film and series hits of the search page.
func (c *Client) SearchByName(ctx context.Context, query string) ([]title.ProviderResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	page, err := c.fetch(ctx, "/hledat/?q="+url.QueryEscape(query))
	if err != nil {
		return nil, fmt.Errorf("csfd search: %w", err)
	}
	results, err := parseSearch(page)
	if err != nil {
		return nil, fmt.Errorf("csfd search: %w", err)
	}
	return results, nil
}

// FetchByID scrapes the film page for id. ČSFD serves films and series
// under the same path, so mediaType is ignored. A 404 yields (nil, nil).
func (c *Client) FetchByID(ctx context.Context, id string, _ title.MediaType) (*title.ProviderResult, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.Trim(id, "0123456789") != "" {
		return nil, fmt.Errorf("invalid csfd id %q", id)
	}
	page, err := c.fetch(ctx, "/film/"+id+"/")
	if providers.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csfd film %s: %w", id, err)
	}
	result, err := parseFilm(page, id)
	if err != nil {
		return nil, fmt.Errorf("csfd film %s: %w", id, err)
	}
	return &result, nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "cs")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &providers.HTTPStatusError{
			Provider:   providerName,
			URL:        c.baseURL + path,
			StatusCode: resp.StatusCode,
			Latency:    latency,
		}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
